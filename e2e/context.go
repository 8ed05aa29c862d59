package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// TestContext holds the state of one scenario: the last response and any token
// captured along the way.
type TestContext struct {
	BaseURL     string
	HTTPClient  *http.Client
	runID       string
	accessToken string
	savedPostID string

	LastStatus int
	LastBody   []byte
}

// NewTestContext targets E2E_BASE_URL, defaulting to a local server.
func NewTestContext() *TestContext {
	base := os.Getenv("E2E_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(base, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		runID:      strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.accessToken = ""
	tc.savedPostID = ""
	tc.LastStatus = 0
	tc.LastBody = nil
	tc.runID = strconv.FormatInt(time.Now().UnixNano(), 36)
}

// Unique suffixes name with a per-scenario id so scenarios can rerun against a
// long-lived server without colliding on usernames or emails.
func (tc *TestContext) Unique(name string) string {
	return name + "-" + tc.runID
}

func (tc *TestContext) do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.LastStatus = resp.StatusCode
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) POST(path string, body any, headers map[string]string) error {
	return tc.do(http.MethodPost, path, body, headers)
}

func (tc *TestContext) PUT(path string, body any, headers map[string]string) error {
	return tc.do(http.MethodPut, path, body, headers)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) DELETE(path string, headers map[string]string) error {
	return tc.do(http.MethodDelete, path, nil, headers)
}

func (tc *TestContext) GetLastStatus() int {
	return tc.LastStatus
}

func (tc *TestContext) GetLastBody() []byte {
	return tc.LastBody
}

// GetResponseField resolves a dotted path such as "data.author" in the last JSON body.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.LastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	cur := doc
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		cur, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found in response", field)
		}
	}
	return cur, nil
}

func (tc *TestContext) GetAccessToken() string {
	return tc.accessToken
}

func (tc *TestContext) SetAccessToken(token string) {
	tc.accessToken = token
}

func (tc *TestContext) AuthHeader() map[string]string {
	if tc.accessToken == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + tc.accessToken}
}

func (tc *TestContext) GetSavedPostID() string {
	return tc.savedPostID
}

func (tc *TestContext) SetSavedPostID(id string) {
	tc.savedPostID = id
}
