package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrRateLimited is returned when a key has used up its daily request allowance
	ErrRateLimited = errors.New("daily rate limit exceeded")
	// ErrKeyRevoked is returned for a correctly signed key an admin has revoked
	ErrKeyRevoked = errors.New("api key revoked")
)

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// IssueAPIKey stores a newly generated key. Keys are derived from their name,
// so issuing a revoked name again reinstates it with the new limit.
func IssueAPIKey(db *gorm.DB, k APIKey) (*APIKey, error) {
	k.Revoked = false
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "key_preview", "rate_limit", "revoked"}),
	}).Create(&k).Error
	if err != nil {
		return nil, fmt.Errorf("issuing api key: %w", err)
	}
	var stored APIKey
	if err := db.Where(APIKey{Key: k.Key}).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("loading api key: %w", err)
	}
	return &stored, nil
}

// RevokeAPIKey marks a key as revoked. The row is kept so the signed key
// cannot re-register itself on its next request.
func RevokeAPIKey(db *gorm.DB, id string) error {
	res := db.Model(&APIKey{}).Where("id = ?", id).Update("revoked", true)
	if res.Error != nil {
		return fmt.Errorf("revoking api key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("api key %s: %w", id, ErrNotFound)
	}
	return nil
}

// TouchAPIKey loads the record for a verified key, creating it from seed on
// first use, and stamps its last-used time. Revoked keys fail with ErrKeyRevoked.
func TouchAPIKey(db *gorm.DB, seed APIKey) (*APIKey, error) {
	var apiKey APIKey
	err := db.Where(APIKey{Key: seed.Key}).Attrs(seed).FirstOrCreate(&apiKey).Error
	if err != nil {
		return nil, fmt.Errorf("loading api key: %w", err)
	}
	if apiKey.Revoked {
		return nil, ErrKeyRevoked
	}
	now := time.Now()
	if err := db.Model(&apiKey).Update("last_used", &now).Error; err != nil {
		return nil, fmt.Errorf("stamping api key: %w", err)
	}
	return &apiKey, nil
}

// CheckRateLimit fails with ErrRateLimited when the key has already made its
// allowed number of requests today
func CheckRateLimit(db *gorm.DB, key *APIKey) error {
	if key.RateLimit <= 0 {
		return nil
	}
	var usage APIUsage
	err := db.Where("key_id = ? AND date = ?", key.ID, today()).Limit(1).Find(&usage).Error
	if err != nil {
		return fmt.Errorf("loading usage: %w", err)
	}
	if usage.RequestCount >= key.RateLimit {
		return ErrRateLimited
	}
	return nil
}

// RecordUsage counts one request against today's usage row using an upsert
func RecordUsage(db *gorm.DB, keyID uint, projects, people int) error {
	// OnConflict is supported by both Postgres and SQLite
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"total_projects": gorm.Expr("total_projects + ?", projects),
			"total_people":   gorm.Expr("total_people + ?", people),
		}),
	}).Create(&APIUsage{
		KeyID:         keyID,
		Date:          today(),
		RequestCount:  1,
		TotalProjects: projects,
		TotalPeople:   people,
	}).Error
}

// UsageHistory returns the most recent daily usage rows of a key
func UsageHistory(db *gorm.DB, keyID uint, days int) ([]APIUsage, error) {
	var usage []APIUsage
	if err := db.Where("key_id = ?", keyID).Order("date desc").Limit(days).Find(&usage).Error; err != nil {
		return nil, fmt.Errorf("loading usage: %w", err)
	}
	return usage, nil
}
