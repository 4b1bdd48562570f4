// Command seed drives a complete demo flow against a running server:
// trip intake, constraint confirmation, plan and itinerary generation.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	api := flag.String("api", "http://localhost:8080", "API base URL")
	user := flag.String("user", "demo_user", "user id header value")
	flag.Parse()

	c := &client{base: *api, user: *user, http: &http.Client{Timeout: 30 * time.Second}}

	today := time.Now().UTC()
	trip := c.post("/api/trips", map[string]any{
		"origin":        "SFO",
		"destination":   "PAR",
		"start_date":    today.AddDate(0, 0, 30).Format("2006-01-02"),
		"end_date":      today.AddDate(0, 0, 35).Format("2006-01-02"),
		"flexible_days": 2,
		"budget_total":  1800,
		"currency":      "USD",
		"travelers":     1,
		"preferences":   map[string]any{"pace": "balanced"},
	})
	tripID := trip["id"].(string)
	fmt.Println("Trip:", tripID)

	c.post("/api/trips/"+tripID+"/constraints/confirm", map[string]any{})

	planJob := c.post("/api/trips/"+tripID+"/plan", map[string]any{})
	planResult := c.waitForJob(planJob["job_id"].(string))
	fmt.Println("Plan:", planResult["plan_id"])

	itJob := c.post("/api/trips/"+tripID+"/itinerary", map[string]any{"plan_index": 2})
	itResult := c.waitForJob(itJob["job_id"].(string))
	fmt.Println("Itinerary:", itResult["itinerary_id"])

	c.post("/api/alerts", map[string]any{
		"trip_id":           tripID,
		"type":              "flight",
		"threshold":         220.0,
		"frequency_minutes": 1,
	})

	fmt.Println("ICS:", *api+"/api/trips/"+tripID+"/export/ics")
	fmt.Println("MD:", *api+"/api/trips/"+tripID+"/export/md")
}

type client struct {
	base string
	user string
	http *http.Client
}

func (c *client) post(path string, payload map[string]any) map[string]any {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		log.Fatalf("build request %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", c.user)
	return c.do(req)
}

func (c *client) get(path string) map[string]any {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		log.Fatalf("build request %s: %v", path, err)
	}
	req.Header.Set("X-User-Id", c.user)
	return c.do(req)
}

func (c *client) do(req *http.Request) map[string]any {
	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode %s: %v", req.URL.Path, err)
	}
	if resp.StatusCode >= 400 {
		log.Fatalf("%s %s: status %d: %v", req.Method, req.URL.Path, resp.StatusCode, out)
	}
	return out
}

// waitForJob polls until the job reaches a terminal state and returns its
// result payload.
func (c *client) waitForJob(jobID string) map[string]any {
	for i := 0; i < 120; i++ {
		job := c.get("/api/jobs/" + jobID)
		switch job["status"] {
		case "succeeded":
			result, _ := job["result"].(map[string]any)
			return result
		case "failed":
			log.Fatalf("job %s failed: %v", jobID, job["error"])
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatalf("job %s did not finish in time", jobID)
	return nil
}
