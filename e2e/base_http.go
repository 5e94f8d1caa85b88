package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests.
// The whole suite is skipped when no target server is configured, so a
// plain `go test ./...` stays green without infrastructure.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.BaseURL == "" {
		s.T().Skip("BASE_URL not set, skipping end-to-end suite")
	}
	s.client = &http.Client{Timeout: 15 * time.Second}
}

// Step prints a colorized header so scenario phases stand out in logs.
func (s *BaseHTTPSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// DoJSON performs one request against the target server, decodes the
// JSON response into out (when non-nil) and returns the status code.
func (s *BaseHTTPSuite) DoJSON(t *testing.T, method, path, token string, body any, out any, headers map[string]string) int {
	var reqBody io.Reader
	var rawReq []byte
	if body != nil {
		var err error
		rawReq, err = json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(rawReq)
	}

	req, err := http.NewRequest(method, strings.TrimRight(s.Config.BaseURL, "/")+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err, "request to %s failed", path)
	defer resp.Body.Close()

	rawResp, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nREQUEST:")
		fmt.Fprintln(&logBuilder, string(rawReq))
		fmt.Fprintln(&logBuilder, "RESPONSE:")
		fmt.Fprintln(&logBuilder, string(rawResp))
	}
	t.Log(logBuilder.String())

	if out != nil && len(rawResp) > 0 {
		s.Require().NoError(json.Unmarshal(rawResp, out), "undecodable response from %s", path)
	}
	return resp.StatusCode
}
