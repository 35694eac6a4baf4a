package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/postcraft/internal/logger"
)

var generateKeywords string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a post preview without publishing",
	Long: `Generates a LinkedIn post from the keywords and prints it.
No LinkedIn sign-in is needed and nothing is recorded.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateKeywords, "keywords", "k", "", "comma-separated keywords")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generatorService == nil {
		return errNotConfigured("generator")
	}

	keywords, err := parseKeywordFlag(generateKeywords)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	if keywordService != nil {
		duplicates, err := keywordService.Duplicates(ctx, keywords)
		if err != nil {
			logger.Warn("could not check keyword history: %v", err)
		}
		printDuplicateWarning(cmd, duplicates)
	}

	body, err := generatorService.Generate(ctx, keywords)
	if err != nil {
		return err
	}

	cmd.Println(body)
	return nil
}
