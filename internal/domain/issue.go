package domain

// Severity expresses how damaging an issue is to search visibility.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Impact expresses the expected ranking benefit of fixing an issue.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Effort expresses how much work a fix typically takes.
type Effort string

const (
	EffortEasy   Effort = "easy"
	EffortMedium Effort = "medium"
	EffortHard   Effort = "hard"
)

// Bucket is the urgency tier assigned to a recommendation.
type Bucket string

const (
	BucketDoNow    Bucket = "do_now"
	BucketThisWeek Bucket = "this_week"
	BucketLater    Bucket = "later"
)

// NotMeasured is the checklist value used when the backing metric is absent.
// Items carrying it are excluded from the checklist pass-rate.
const NotMeasured = "n/a (not measured)"

// Issue is one matched audit rule with its weighting.
type Issue struct {
	Key           string   `json:"key"`
	Title         string   `json:"title"`
	Details       string   `json:"details"`
	Severity      Severity `json:"severity"`
	Impact        Impact   `json:"impact"`
	Effort        Effort   `json:"effort"`
	FixSuggestion string   `json:"fix_suggestion"`
	Confidence    float64  `json:"confidence"`
	PriorityScore float64  `json:"priority_score"`
}

// Recommendation is the actionable projection of one issue.
type Recommendation struct {
	Title         string  `json:"title"`
	Reason        string  `json:"reason"`
	Action        string  `json:"action"`
	Bucket        Bucket  `json:"bucket"`
	PriorityScore float64 `json:"priority_score"`
}

// ChecklistItem is one fixed pass/fail criterion evaluated against an audit.
type ChecklistItem struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Target   string `json:"target"`
	Value    string `json:"value"`
	Passed   bool   `json:"passed"`
	Priority Bucket `json:"priority"`
}
