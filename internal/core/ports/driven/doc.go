// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KeywordLedger: Append-only record of published keywords
//   - LLMService: Text generation backend for post drafts
//   - TokenExchanger: OAuth authorization URL and code exchange
//   - Publisher: Identity lookup, media upload and post submission
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application falls back to built-in defaults:
//
//   - PromptStore: User-editable prompt templates
//   - AIConfigValidator: Connectivity checks for the configured LLM
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
