// Command smoke probes a running deployment and fails when any critical
// endpoint misbehaves. Intended for post-deploy checks in CI.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type target struct {
	Method   string
	Path     string
	Status   int
	Critical bool
	Authed   bool
}

type result struct {
	Target   target
	Status   int
	OK       bool
	Duration time.Duration
	Error    error
}

var targets = []target{
	{Method: http.MethodGet, Path: "/health", Status: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/ready", Status: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/metrics", Status: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/calendar/day", Status: http.StatusOK, Critical: true, Authed: true},
	{Method: http.MethodGet, Path: "/api/v1/calendar/week", Status: http.StatusOK, Authed: true},
	{Method: http.MethodGet, Path: "/api/v1/calendar/month", Status: http.StatusOK, Authed: true},
	{Method: http.MethodGet, Path: "/api/v1/calendar/agenda", Status: http.StatusOK, Critical: true, Authed: true},
	{Method: http.MethodGet, Path: "/api/v1/analytics?window=30", Status: http.StatusOK, Authed: true},
	{Method: http.MethodGet, Path: "/api/v1/sources", Status: http.StatusOK, Authed: true},
	{Method: http.MethodGet, Path: "/api/v1/calendar/feed.ics", Status: http.StatusOK},
}

func main() {
	var (
		base     string
		email    string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&email, "email", "", "staff login for authenticated targets (skipped when empty)")
	flag.StringVar(&password, "password", "", "password for the staff login")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	var token string
	if email != "" {
		var err error
		token, err = login(client, base, email, password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}

	var (
		results  []result
		breaking int
	)
	for _, tgt := range targets {
		if tgt.Authed && token == "" {
			continue
		}
		res := probe(client, base, token, tgt)
		if !res.OK && tgt.Critical {
			breaking++
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func login(client *http.Client, base, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(strings.TrimRight(base, "/")+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected login status %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return envelope.Data.AccessToken, nil
}

func probe(client *http.Client, base, token string, tgt target) result {
	res := result{Target: tgt}

	url := strings.TrimRight(base, "/") + tgt.Path
	req, err := http.NewRequest(tgt.Method, url, nil)
	if err != nil {
		res.Error = err
		return res
	}
	if tgt.Authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.Status = resp.StatusCode
	res.OK = resp.StatusCode == tgt.Status
	return res
}

func printReport(results []result) {
	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.OK {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (want %d) in %s | Critical: %t\n", res.Status, res.Target.Status, res.Duration, res.Target.Critical)
	}
}
