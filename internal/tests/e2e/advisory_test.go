//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/krushiiq/apiserver/config"
	"github.com/krushiiq/apiserver/internal/db"
	"github.com/krushiiq/apiserver/internal/server"
	"github.com/krushiiq/apiserver/internal/store"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	serverPort = 18080
	dbName     = "krushiiq_e2e"
)

var (
	baseURL     = fmt.Sprintf("http://localhost:%d", serverPort)
	mongoClient *mongo.Client
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongodb: %v\n", err)
		return 1
	}
	defer func() {
		_ = testcontainers.TerminateContainer(container)
	}()

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongodb connection string: %v\n", err)
		return 1
	}

	cfg := config.Config{
		ServerPort: serverPort,
		Database: config.DatabaseConfig{
			Driver:   db.DriverMongo,
			MongoURI: uri,
			DBName:   dbName,
		},
		Auth:    config.AuthConfig{JWTSecret: "e2e-secret", TokenTTL: 24 * time.Hour},
		Weather: config.WeatherConfig{Timeout: 2 * time.Second},
	}

	mongoClient, err = db.OpenMongo(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect mongodb: %v\n", err)
		return 1
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	srv, err := server.New(ctx, cfg, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		return 1
	}

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(runCtx) }()
	defer func() {
		stop()
		<-done
	}()

	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		return 1
	}

	return m.Run()
}

func TestAccountLifecycle(t *testing.T) {
	email := fmt.Sprintf("farmer_%d@example.com", time.Now().UnixNano())
	creds := map[string]any{"username": "asha", "email": email, "password": "testpass123!"}

	status, env := postJSON(t, "/api/register", creds, "")
	if status != http.StatusCreated {
		t.Fatalf("register status %d: %s", status, env.Message)
	}
	userID, _ := env.Data["user_id"].(string)
	if userID == "" {
		t.Fatalf("expected user_id in register response")
	}

	status, env = postJSON(t, "/api/register", creds, "")
	if status != http.StatusBadRequest || env.Message != "User already exists" {
		t.Fatalf("duplicate register: status %d message %q", status, env.Message)
	}

	count, err := mongoClient.Database(dbName).Collection(store.CollectionUsers).CountDocuments(context.Background(), bson.M{"email": email})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one user document, got %d", count)
	}

	status, env = postJSON(t, "/api/login", map[string]any{"email": email, "password": "wrong"}, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("login with wrong password: status %d", status)
	}

	status, env = postJSON(t, "/api/login", map[string]any{"email": email, "password": "testpass123!"}, "")
	if status != http.StatusOK {
		t.Fatalf("login status %d: %s", status, env.Message)
	}
	token, _ := env.Data["token"].(string)

	status, env = getJSON(t, "/api/me", token)
	if status != http.StatusOK {
		t.Fatalf("me status %d: %s", status, env.Message)
	}
	if env.Data["id"] != userID {
		t.Fatalf("unexpected user id: %v", env.Data["id"])
	}
}

func TestFarmerProfileUpsert(t *testing.T) {
	name := fmt.Sprintf("Ravi %d", time.Now().UnixNano())

	status, _ := getJSON(t, "/api/farmer-profile?name="+strings.ReplaceAll(name, " ", "%20"), "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown farmer, got %d", status)
	}

	for _, acres := range []float64{2, 3.5} {
		profile := map[string]any{"name": name, "location": "Mysuru", "land_acres": acres, "language": "kn"}
		if status, env := postJSON(t, "/api/farmer-profile", profile, ""); status != http.StatusOK {
			t.Fatalf("save profile status %d: %s", status, env.Message)
		}
	}

	count, err := mongoClient.Database(dbName).Collection(store.CollectionFarmers).CountDocuments(context.Background(), bson.M{"name": name})
	if err != nil {
		t.Fatalf("count farmers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one farmer document, got %d", count)
	}

	status, env := getJSON(t, "/api/farmer-profile?name="+strings.ReplaceAll(name, " ", "%20"), "")
	if status != http.StatusOK {
		t.Fatalf("get profile status %d: %s", status, env.Message)
	}
	if env.Data["land_acres"] != 3.5 {
		t.Fatalf("expected latest write to win, got %v", env.Data["land_acres"])
	}
}

func TestAdvisoriesAreRecorded(t *testing.T) {
	records := mongoClient.Database(dbName).Collection(store.CollectionPredictions)
	before, err := records.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		t.Fatalf("count predictions: %v", err)
	}

	status, env := postJSON(t, "/api/yield-prediction", map[string]any{"crop": "wheat", "area_acres": 2, "location": "north"}, "")
	if status != http.StatusOK {
		t.Fatalf("yield status %d: %s", status, env.Message)
	}
	if env.Data["estimated_yield"] != 7.2 {
		t.Fatalf("unexpected yield: %v", env.Data["estimated_yield"])
	}

	status, env = postJSON(t, "/api/yield-prediction", map[string]any{"crop": "Dragonfruit", "area_acres": 2, "location": "north"}, "")
	if status != http.StatusBadRequest || !strings.Contains(env.Message, "Dragonfruit") {
		t.Fatalf("unknown crop: status %d message %q", status, env.Message)
	}

	after, err := records.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		t.Fatalf("count predictions: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected one new prediction record, got %d", after-before)
	}
}

type envelope struct {
	Status  string         `json:"status"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
}

func postJSON(t *testing.T, path string, payload any, token string) (int, envelope) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(t, req, token)
}

func getJSON(t *testing.T, path, token string) (int, envelope) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return do(t, req, token)
}

func do(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode %s: %v", strings.TrimSpace(string(raw)), err)
	}
	return resp.StatusCode, env
}

func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return fmt.Errorf("health check failed with status")
		case <-ticker.C:
		}
	}
}
