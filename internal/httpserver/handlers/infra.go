package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/webspot/webspot/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	WebsitesLoaded *int   `json:"websites_loaded,omitempty"`
	LastFetch      string `json:"last_fetch,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	StorageMode string                     `json:"storage_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		websitesCount := d.List.Len()
		lastFetch := d.List.LastFetch()
		lastFetchStr := "never"
		if !lastFetch.IsZero() {
			lastFetchStr = lastFetch.Format("2006-01-02 15:04:05")
		}

		redisStatus := checkRedis(d)

		components := map[string]componentStatus{
			"websites": {
				OK:             true,
				WebsitesLoaded: &websitesCount,
				LastFetch:      lastFetchStr,
			},
			"redis": redisStatus,
			"session": {
				OK:   true,
				Mode: d.Sessions.Mode().String(),
			},
		}

		response := infraResponse{
			StorageMode: determineStorageMode(components),
			Components:  components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineStorageMode(components map[string]componentStatus) string {
	// Redis down means only the guest backend keeps working
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "local-only"
	}

	if session, exists := components["session"]; exists && session.Mode == "guest" {
		return "local"
	}

	return "remote"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "remote-storage-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := d.RedisClient.Ping(ctx).Err()
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "remote-storage-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "remote-storage-enabled",
		Error:  "none",
	}
}
