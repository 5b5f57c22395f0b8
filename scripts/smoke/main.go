package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	"github.com/Ehud-Guzman/customerfeedback/internal/service"
	"github.com/Ehud-Guzman/customerfeedback/pkg/config"
)

type target struct {
	Method       string          `json:"method"`
	Path         string          `json:"path"`
	Auth         bool            `json:"auth"`
	Body         json.RawMessage `json:"body"`
	ExpectStatus int             `json:"expectStatus"`
	Critical     bool            `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Envelope bool
	Error    error
	Duration time.Duration
}

func (r result) passed() bool {
	return r.Error == nil && r.Status == r.Target.ExpectStatus
}

func main() {
	var (
		base        string
		targetsPath string
		userID      string
		role        string
		orgID       string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:5000/api", "API base URL including prefix")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.StringVar(&userID, "user", "", "User id to mint an access token for")
	flag.StringVar(&role, "role", string(models.RoleOrgAdmin), "Role claim of the minted token")
	flag.StringVar(&orgID, "org", "", "Organization id or code sent as X-Org-Id")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	var token string
	if userID != "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		auth := service.NewAuthService(zap.NewNop(), service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: 15 * time.Minute,
			Issuer:            cfg.JWT.Issuer,
		})
		token, _, err = auth.IssueAccessToken(userID, models.UserRole(role), "")
		if err != nil {
			log.Fatalf("failed to mint token: %v", err)
		}
	}

	client := &http.Client{Timeout: timeout}
	var (
		results  []result
		breaking int
		optional int
	)
	for _, t := range targets {
		res := runTarget(client, base, token, orgID, t)
		if !res.passed() {
			if t.Critical {
				breaking++
			} else {
				optional++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d, Optional failures: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	for i := range file.Targets {
		if file.Targets[i].ExpectStatus == 0 {
			file.Targets[i].ExpectStatus = http.StatusOK
		}
	}
	return file.Targets, nil
}

func runTarget(client *http.Client, base, token, orgID string, tgt target) result {
	res := result{Target: tgt}
	if tgt.Auth && token == "" {
		res.Error = errors.New("target requires -user")
		return res
	}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		res.Error = err
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	if tgt.Auth {
		req.Header.Set("Authorization", "Bearer "+token)
		if orgID != "" {
			req.Header.Set("X-Org-Id", orgID)
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("read body: %w", err)
		return res
	}
	res.Envelope = hasEnvelope(raw)
	return res
}

func hasEnvelope(raw []byte) bool {
	var env struct {
		OK *bool `json:"ok"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}
	return env.OK != nil
}

func printReport(results []result) {
	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.passed() {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s (%s)\n", status, res.Target.Method, res.Target.Path, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (want %d) | Envelope: %t | Critical: %t\n", res.Status, res.Target.ExpectStatus, res.Envelope, res.Target.Critical)
	}
}
