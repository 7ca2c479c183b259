package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/ritual-app/ritual/internal/constants"
	"github.com/ritual-app/ritual/internal/keyring"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrAgentNotRunning is returned when no local notification agent can be
// discovered via its lockfile.
var ErrAgentNotRunning = errors.New("ritual agent is not running")

// AgentClient talks to the local notification agent over its loopback HTTP
// API. It implements Notifier; every call dispatches on its own goroutine and
// reports back through the callback.
type AgentClient struct {
	baseURL string
	secret  string
	client  *http.Client
}

// NewAgentClient builds a client against an explicit address and secret.
func NewAgentClient(baseURL, secret string) *AgentClient {
	return &AgentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// DiscoverAgent locates a running agent through its lockfile and returns a
// client bound to it. The shared secret comes from the lockfile, with the OS
// keyring as fallback when the lockfile omits it.
func DiscoverAgent() (*AgentClient, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}

	lockfile := filepath.Join(configDir, constants.AppName, constants.AgentLockfileName)
	port, secret, err := readAgentLockfile(lockfile)
	if err != nil {
		return nil, err
	}

	if secret == "" {
		secret, err = keyring.GetAgentSecret()
		if err != nil {
			return nil, fmt.Errorf("agent secret unavailable: %w", err)
		}
	}

	return NewAgentClient(fmt.Sprintf("http://127.0.0.1:%s", port), secret), nil
}

// readAgentLockfile parses the agent lockfile ("port|pid|secret") and checks
// that the recorded process is still alive and is actually the agent.
func readAgentLockfile(path string) (port, secret string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", ErrAgentNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("agent lockfile is malformed")
	}

	port = parts[0]
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in agent lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in agent lockfile")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrAgentNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return "", "", fmt.Errorf("process with PID %d is not the ritual agent (is %s)", pid, process.Executable())
	}

	return port, parts[2], nil
}

func (c *AgentClient) do(method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Ritual-Secret", c.secret)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		data, _ := io.ReadAll(res.Body)
		return fmt.Errorf("agent request failed with status %d: %s", res.StatusCode, string(data))
	}

	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

func (c *AgentClient) RequestAuthorization(cb func(granted bool, err error)) {
	go func() {
		var res struct {
			Granted bool `json:"granted"`
		}
		err := c.do(http.MethodPost, "/v1/authorize", nil, &res)
		cb(res.Granted, err)
	}()
}

func (c *AgentClient) AuthorizationStatus(cb func(authorized bool)) {
	go func() {
		var res struct {
			Authorized bool `json:"authorized"`
		}
		if err := c.do(http.MethodGet, "/v1/status", nil, &res); err != nil {
			cb(false)
			return
		}
		cb(res.Authorized)
	}()
}

func (c *AgentClient) Submit(id string, content Content, fireAt time.Time, cb func(err error)) {
	go func() {
		req := Request{ID: id, Content: content, FireAt: fireAt}
		cb(c.do(http.MethodPut, "/v1/notifications/"+id, req, nil))
	}()
}

func (c *AgentClient) Cancel(ids []string) {
	if len(ids) == 0 {
		return
	}
	go func() {
		payload := struct {
			IDs []string `json:"ids"`
		}{IDs: ids}
		// Cancel is fire-and-forget; an unreachable agent means there is
		// nothing live to cancel anyway.
		_ = c.do(http.MethodDelete, "/v1/notifications", payload, nil)
	}()
}

func (c *AgentClient) PendingIDs(cb func(ids []string, err error)) {
	go func() {
		var res struct {
			IDs []string `json:"ids"`
		}
		err := c.do(http.MethodGet, "/v1/notifications", nil, &res)
		cb(res.IDs, err)
	}()
}

var _ Notifier = (*AgentClient)(nil)
