package www

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"yardcore/config"
	"yardcore/engine"
	"yardcore/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Rollup.RecomputeInterval = 0
	cfg.Rollup.CheckpointInterval = 0
	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	eng := engine.New(engine.Config{AppConfig: cfg, DB: db, LogFunc: t.Logf})
	if err := eng.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	t.Cleanup(eng.Stop)

	srv := httptest.NewServer(NewRouter(eng))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestAssetAPIFlow(t *testing.T) {
	srv := testServer(t)

	resp, out := postJSON(t, srv.URL+"/api/assets", map[string]any{
		"assetType": "cradle",
		"name":      "Cradle 1",
		"extension": map[string]any{"capacity": 2000},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create cradle: %d %v", resp.StatusCode, out)
	}
	cradleID, _ := out["id"].(string)
	if cradleID == "" {
		t.Fatal("no cradle id returned")
	}

	resp, out = postJSON(t, srv.URL+"/api/assets", map[string]any{
		"assetType": "vessel",
		"name":      "MV Harland",
		"extension": map[string]any{"vesselName": "MV Harland", "weight": 1200},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create vessel: %d %v", resp.StatusCode, out)
	}
	vesselID := out["id"].(string)

	resp, _ = postJSON(t, srv.URL+"/api/assets/"+vesselID+"/references", map[string]any{
		"relation": "vessel.assignedCradle",
		"toId":     cradleID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set reference: %d", resp.StatusCode)
	}

	// A second vessel cannot claim the same cradle.
	_, out = postJSON(t, srv.URL+"/api/assets", map[string]any{
		"assetType": "vessel",
		"name":      "MV Orla",
	})
	otherID := out["id"].(string)
	resp, _ = postJSON(t, srv.URL+"/api/assets/"+otherID+"/references", map[string]any{
		"relation": "vessel.assignedCradle",
		"toId":     cradleID,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("conflicting assignment: got %d, want 409", resp.StatusCode)
	}

	get, err := http.Get(srv.URL + "/api/assets/" + cradleID)
	if err != nil {
		t.Fatalf("get cradle: %v", err)
	}
	defer get.Body.Close()
	var detail struct {
		Extension struct {
			Occupancy   string  `json:"occupancy"`
			CurrentLoad float64 `json:"currentLoad"`
		} `json:"extension"`
	}
	json.NewDecoder(get.Body).Decode(&detail)
	if detail.Extension.Occupancy != vesselID || detail.Extension.CurrentLoad != 1200 {
		t.Errorf("cradle occupancy: %+v", detail.Extension)
	}

	resp, _ = postJSON(t, srv.URL+"/api/assets/"+vesselID+"/transition", map[string]any{"status": "retired"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retire: %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv.URL+"/api/assets/"+vesselID+"/transition", map[string]any{"status": "operational"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("revive retired: got %d, want 409", resp.StatusCode)
	}
}

func TestReadingAndRollupAPI(t *testing.T) {
	srv := testServer(t)

	_, out := postJSON(t, srv.URL+"/api/assets", map[string]any{
		"assetType": "trolley",
		"name":      "Trolley 7",
		"extension": map[string]any{"wheelCount": 2},
	})
	trolleyID := out["id"].(string)

	resp, _ := postJSON(t, srv.URL+"/api/readings", map[string]any{
		"trolleyId": trolleyID, "wheel": 0, "kind": "load", "value": 100,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("record reading: %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv.URL+"/api/readings", map[string]any{
		"trolleyId": trolleyID, "wheel": 5, "kind": "load", "value": 1,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out of range wheel: got %d, want 400", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv.URL+"/api/readings", map[string]any{
		"trolleyId": "nope", "wheel": 0, "kind": "load", "value": 1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown trolley: got %d, want 404", resp.StatusCode)
	}

	get, err := http.Get(srv.URL + "/api/assets/" + trolleyID + "/rollup")
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("rollup status: %d", get.StatusCode)
	}
	var row struct {
		AssetID             string `json:"assetId"`
		OperationalTrolleys int    `json:"operationalTrolleys"`
	}
	json.NewDecoder(get.Body).Decode(&row)
	if row.AssetID != trolleyID || row.OperationalTrolleys != 1 {
		t.Errorf("rollup row: %+v", row)
	}

	get, err = http.Get(srv.URL + "/api/rollup")
	if err != nil {
		t.Fatalf("fleet rollup: %v", err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Errorf("fleet rollup status: %d", get.StatusCode)
	}
}
