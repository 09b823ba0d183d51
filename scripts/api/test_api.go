// Minimal end-to-end integration test for the ClaimWatch API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
)

var baseURL = getenv("API_URL", "http://localhost:8080/v1")

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	token := register()
	login(token)

	analyzeText(token)
	listInfluencers(token)

	if handle := os.Getenv("SMOKE_HANDLE"); handle != "" {
		analyzeInfluencer(token, handle)
	}

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

var email = "smoke-" + uuid.NewString() + "@claimwatch.test"

func register() string {
	var resp struct{ Token string }
	doJSON("POST", "/auth/register", map[string]any{
		"name":     "Smoke Test",
		"email":    email,
		"password": "smoke-password-1",
	}, &resp, http.StatusCreated)
	if resp.Token == "" {
		log.Fatal("register: empty token")
	}
	return resp.Token
}

func login(prev string) {
	var resp struct{ Token string }
	doJSON("POST", "/auth/login", map[string]any{
		"email":    email,
		"password": "smoke-password-1",
	}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("login: empty token")
	}
	_ = prev
}

// ----------------------------- analysis

func analyzeText(tok string) {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Claims []json.RawMessage `json:"claims"`
		} `json:"data"`
	}
	doAuth(tok, "POST", "/analyze", map[string]any{
		"text":   "Scientists found this treatment may cure the disease.",
		"verify": false,
	}, &resp, http.StatusOK)
	if !resp.Success || len(resp.Data.Claims) == 0 {
		log.Fatal("analyze: expected at least one extracted claim")
	}
}

func analyzeInfluencer(tok, handle string) {
	var resp struct{ Success bool }
	doAuth(tok, "POST", "/influencers/analyze", map[string]any{
		"handle":    handle,
		"timeRange": "lastWeek",
	}, &resp, http.StatusOK)
	if !resp.Success {
		log.Fatalf("influencers/analyze: failed for %s", handle)
	}
}

func listInfluencers(tok string) {
	var resp struct{ Success bool }
	doAuth(tok, "GET", "/influencers", nil, &resp, http.StatusOK)
	if !resp.Success {
		log.Fatal("influencers: list failed")
	}
}

// ----------------------------- helpers

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
