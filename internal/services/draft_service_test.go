// internal/services/draft_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/wizard"
)

func registryService() *DraftService {
	return &DraftService{
		log:      logrus.WithField("component", "draft_service"),
		sessions: make(map[uuid.UUID]*liveSession),
	}
}

func TestEvictStaleSessionsDropsIdleControllers(t *testing.T) {
	svc := registryService()
	now := time.Now()

	activeID := uuid.New()
	svc.sessions[activeID] = &liveSession{
		controller: wizard.NewController(nil, nil, nil),
		lastSeen:   now,
	}

	idleID := uuid.New()
	svc.sessions[idleID] = &liveSession{
		controller: wizard.NewController(nil, nil, nil),
		lastSeen:   now.Add(-sessionIdleTTL - time.Minute),
	}

	svc.evictStaleSessions(now)

	assert.Contains(t, svc.sessions, activeID, "recently used session stays resident")
	assert.NotContains(t, svc.sessions, idleID, "idle session is evicted")
}

func TestEvictStaleSessionsDropsCompletedControllers(t *testing.T) {
	svc := registryService()
	now := time.Now()

	completed := wizard.NewController(nil, nil, nil)
	snap := completed.Snapshot()
	snap.Completed = true
	completed.Restore(snap)

	completedID := uuid.New()
	svc.sessions[completedID] = &liveSession{controller: completed, lastSeen: now}

	svc.evictStaleSessions(now)

	assert.NotContains(t, svc.sessions, completedID, "completed session is evicted regardless of age")
}
