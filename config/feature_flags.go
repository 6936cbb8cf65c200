package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the portal backend.
// Supports gradual rollout, per-user overrides, and department targeting.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[int]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Department targeting (e.g., "Computer Science")
	// Empty means all departments
	TargetDepartments []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID     int    // Portal user id
	Department string // Student department
	IsAdmin    bool   // Is admin user
}

// Predefined feature flag names.
const (
	// === Store Features ===
	FeatureStoreSeedOnEmpty = "store.seed_on_empty" // Seed baseline records on first run
	FeatureStoreAuditLog    = "store.audit_log"     // Record SystemLog entries per mutation

	// === Report Features ===
	FeatureReportRevisionFlow = "reports.revision_flow" // Allow revision_required status round-trips
	FeatureReportRemarks      = "reports.remarks"       // Teacher remarks on reports

	// === Placement Features ===
	FeaturePlacementApplications = "placement.applications"  // Students apply to opportunities
	FeaturePlacementNOCWorkflow  = "placement.noc_workflow"  // NOC request approval flow
	FeaturePlacementCertVerify   = "placement.cert_verify"   // Certificate verification by staff

	// === Ops Features ===
	FeatureOpsHTTPServer = "ops.http_server" // /healthz and /stats endpoints
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[int]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureStoreSeedOnEmpty] = &Feature{
		Name:           FeatureStoreSeedOnEmpty,
		Description:    "Seed baseline records when no snapshot exists",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureStoreAuditLog] = &Feature{
		Name:           FeatureStoreAuditLog,
		Description:    "Record a SystemLog entry for every mutation",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureReportRevisionFlow] = &Feature{
		Name:           FeatureReportRevisionFlow,
		Description:    "Teachers can send weekly reports back for revision",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureReportRemarks] = &Feature{
		Name:           FeatureReportRemarks,
		Description:    "Teacher remarks attached to weekly reports",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeaturePlacementApplications] = &Feature{
		Name:           FeaturePlacementApplications,
		Description:    "Students apply to internship opportunities",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeaturePlacementNOCWorkflow] = &Feature{
		Name:           FeaturePlacementNOCWorkflow,
		Description:    "NOC request approval workflow",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeaturePlacementCertVerify] = &Feature{
		Name:           FeaturePlacementCertVerify,
		Description:    "Placement staff verify uploaded certificates",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureOpsHTTPServer] = &Feature{
		Name:           FeatureOpsHTTPServer,
		Description:    "Expose /healthz and /stats over HTTP",
		Enabled:        true,
		RolloutPercent: 100,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_STORE_AUDIT_LOG=false
// Example: FEATURE_PLACEMENT_APPLICATIONS=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "store.audit_log" -> "FEATURE_STORE_AUDIT_LOG"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != 0 {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check department targeting
	if len(feature.TargetDepartments) > 0 && ctx != nil && ctx.Department != "" {
		match := false
		for _, d := range feature.TargetDepartments {
			if d == ctx.Department {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != 0 {
		return ff.isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
// Uses consistent hashing so users stay in their bucket.
func (ff *FeatureFlags) isInRollout(userID int, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(strconv.Itoa(userID)))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetUserOverride sets a feature override for a specific user.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID int, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID int) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
