// Package oauth provides the loopback OAuth callback server and browser opener.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// DefaultWaitTimeout bounds how long a CLI run waits for the browser redirect.
const DefaultWaitTimeout = 5 * time.Minute

// DefaultCallbackPath is the path used when none is given.
const DefaultCallbackPath = "/callback"

// ErrStateMismatch indicates the callback carried a state other than the pending one.
var ErrStateMismatch = errors.New("state mismatch")

// CallbackServer handles OAuth redirect callbacks.
// It starts a local HTTP server to receive the authorization code.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	path          string
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server on port serving DefaultCallbackPath.
// If port is 0, a random available port is chosen on Start.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		path:          DefaultCallbackPath,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// NewCallbackServerForRedirect creates a server matching the port and path of
// a loopback redirect URI such as http://localhost:8501/callback.
func NewCallbackServerForRedirect(redirectURI, expectedState string) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect uri: %w", domain.ErrConfiguration, err)
	}

	switch u.Hostname() {
	case "localhost", "127.0.0.1":
	default:
		return nil, fmt.Errorf("%w: redirect uri %q is not a loopback address", domain.ErrConfiguration, redirectURI)
	}

	port := 80
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: redirect uri port %q", domain.ErrConfiguration, p)
		}
	}

	s := NewCallbackServer(port, expectedState)
	if u.Path != "" && u.Path != "/" {
		s.path = u.Path
	}
	return s, nil
}

// Start starts the callback server on the configured port.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+s.path, s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}
	logger.Debug("oauth callback listening on %s", s.RedirectURI())

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.report(err)
		}
	}()

	return nil
}

// handleCallback validates the redirect and hands the code to WaitForCode.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		errDesc := query.Get("error_description")
		s.report(fmt.Errorf("%w: provider returned %s: %s", domain.ErrAuthExchange, errParam, errDesc))
		writePage(w, http.StatusBadRequest, "Authorization failed", errDesc)
		return
	}

	if query.Get("state") != s.expectedState {
		s.report(fmt.Errorf("%w: %w", domain.ErrAuthExchange, ErrStateMismatch))
		writePage(w, http.StatusBadRequest, "Authorization failed", "The state parameter did not match this request.")
		return
	}

	code := query.Get("code")
	if code == "" {
		s.report(fmt.Errorf("%w: no authorization code received", domain.ErrAuthExchange))
		writePage(w, http.StatusBadRequest, "Authorization failed", "No authorization code was received.")
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}

	writePage(w, http.StatusOK, "Authorization successful", "You can close this window and return to postcraft.")
}

// report keeps the first error and drops the rest.
func (s *CallbackServer) report(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until a code or a callback error arrives, or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect URI served by this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}

func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, resultHTML(title, message))
}

func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>postcraft</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #F3F2EF;
        }
        .card {
            text-align: center;
            background: white;
            padding: 40px 56px;
            border-radius: 12px;
            box-shadow: 0 2px 16px rgba(0,0,0,0.08);
        }
        h1 { color: #0A66C2; margin: 0 0 8px 0; font-size: 22px; }
        p { color: #5E5E5E; margin: 0; font-size: 15px; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
