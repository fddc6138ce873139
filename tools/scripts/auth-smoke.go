// Package main provides a CI-friendly HTTP smoke test for the vrme auth API.
//
// It validates:
//   - register -> 201
//   - duplicate register -> 409 conflict
//   - login -> 201 with a 44-char auth token
//   - /me with the bearer value
//   - logout -> 204, then the same bearer is rejected
//
// The password is read from -password, $VRME_SMOKE_PASSWORD, or prompted on a terminal.
package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	v1 "vrme/shared/contracts/auth/v1"

	"golang.org/x/term"
)

type smokeClient struct {
	base    string
	http    *http.Client
	timeout time.Duration
	verbose bool
}

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:8080", "API base URL")
		email    = flag.String("email", "", "Account email (default: a unique smoke address)")
		password = flag.String("password", "", "Plaintext password (hashed client-side before sending)")
		timeout  = flag.Duration("timeout", 10*time.Second, "Per-step timeout")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if err := validateBaseURL(*baseURL); err != nil {
		fatalf("invalid -url: %v", err)
	}

	if *email == "" {
		*email = fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())
	}
	pw, err := resolvePassword(*password)
	if err != nil {
		fatalf("password: %v", err)
	}

	c := &smokeClient{
		base:    strings.TrimRight(*baseURL, "/"),
		http:    &http.Client{},
		timeout: *timeout,
		verbose: *verbose,
	}
	hash := clientHash(pw)

	reg := v1.RegisterRequest{FirstName: "Smoke", LastName: "Test", Email: *email, ClientHash: hash}
	c.mustStatus(http.MethodPost, v1.PathRegister, "", reg, http.StatusCreated, nil)
	c.mustCause(http.MethodPost, v1.PathRegister, "", reg, http.StatusConflict, v1.CauseConflict)

	var login v1.LoginResponse
	c.mustStatus(http.MethodPost, v1.PathLogin, "", v1.LoginRequest{Email: *email, ClientHash: hash}, http.StatusCreated, &login)
	if len(login.AuthToken) != 44 {
		fatalf("login: auth_token length=%d want 44", len(login.AuthToken))
	}
	bearer := v1.EncodeBearer(login.AccountID, login.AuthToken)

	var me v1.MeResponse
	c.mustStatus(http.MethodGet, v1.PathMe, bearer, nil, http.StatusOK, &me)
	if me.AccountID != login.AccountID || !strings.EqualFold(me.Email, *email) {
		fatalf("me mismatch: got=%+v want id=%s email=%s", me, login.AccountID, *email)
	}

	c.mustStatus(http.MethodPost, v1.PathLogout, bearer, nil, http.StatusNoContent, nil)
	c.mustCause(http.MethodGet, v1.PathMe, bearer, nil, http.StatusUnauthorized, v1.CauseInvalidAuthToken)

	fmt.Printf("OK: auth smoke passed (account_id=%s)\n", login.AccountID)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("missing host")
	}
	return nil
}

func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("VRME_SMOKE_PASSWORD"); v != "" {
		return v, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "smoke-password", nil
	}
	fmt.Fprint(os.Stderr, "password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("empty password")
	}
	return string(b), nil
}

// clientHash is the client-side pre-hash the server expects in client_hash.
func clientHash(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (c *smokeClient) do(method, path, bearer string, body any) (int, []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			fatalf("%s %s: marshal: %v", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		fatalf("%s %s: %v", method, path, err)
	}
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set(v1.AuthorizationKey, v1.AuthorizationHeader(bearer))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		fatalf("%s %s: read body: %v", method, path, err)
	}
	if c.verbose {
		fmt.Printf("%s %s -> %d %s\n", method, path, resp.StatusCode, strings.TrimSpace(string(out)))
	}
	return resp.StatusCode, out
}

func (c *smokeClient) mustStatus(method, path, bearer string, body any, want int, dst any) {
	status, out := c.do(method, path, bearer, body)
	if status != want {
		fatalf("%s %s: status=%d want=%d body=%s", method, path, status, want, out)
	}
	if dst != nil {
		if err := json.Unmarshal(out, dst); err != nil {
			fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func (c *smokeClient) mustCause(method, path, bearer string, body any, wantStatus int, wantCause string) {
	var e v1.ErrorResponse
	c.mustStatus(method, path, bearer, body, wantStatus, &e)
	if e.Cause != wantCause {
		fatalf("%s %s: cause=%q want=%q", method, path, e.Cause, wantCause)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
