package assessment

// Urgency is the time pressure derived from the remaining viability window.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// RiskLevel is shared by the weather classifier and transport decisions.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Method records which path produced a verdict.
type Method string

const (
	MethodSimulation Method = "simulation"
	MethodGateway    Method = "gateway"
)

// Tissue compatibility tiers.
const (
	TissuePoor      = "Poor"
	TissueGood      = "Good"
	TissueExcellent = "Excellent"
)

const (
	defaultOrganType      = "heart"
	defaultTemperatureC   = 4.0
	defaultConditionScore = 85.0
	defaultDonorAge       = 30.0
	defaultRecipientAge   = 40.0
)

// OrganDescriptor is the per-request organ snapshot. Absent numeric fields
// are nil so defaults can be substituted.
type OrganDescriptor struct {
	Type           string   `json:"type,omitempty"`
	DonationTime   string   `json:"donation_time,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	ConditionScore *float64 `json:"condition_score,omitempty"`
}

func (o OrganDescriptor) OrganType() string {
	if o.Type == "" {
		return defaultOrganType
	}
	return o.Type
}

func (o OrganDescriptor) TemperatureC() float64 {
	if o.Temperature == nil {
		return defaultTemperatureC
	}
	return *o.Temperature
}

func (o OrganDescriptor) Condition() float64 {
	if o.ConditionScore == nil {
		return defaultConditionScore
	}
	return *o.ConditionScore
}

// ViabilityVerdict is the simulated viability assessment.
type ViabilityVerdict struct {
	IsViable       bool    `json:"is_viable"`
	HoursLeft      float64 `json:"hours_left"`
	HoursElapsed   float64 `json:"hours_elapsed"`
	MaxHours       float64 `json:"max_hours"`
	Recommendation string  `json:"recommendation"`
	Urgency        Urgency `json:"urgency"`
	Method         Method  `json:"method"`
}

// ToolViability is the gateway viability tool's verdict. It is a separate
// contract from ViabilityVerdict with its own window table and formula.
type ToolViability struct {
	OrganType      string  `json:"organ_type"`
	HoursElapsed   float64 `json:"hours_elapsed"`
	ViabilityScore float64 `json:"viability_score"`
	Status         string  `json:"status"`
	Method         Method  `json:"method,omitempty"`
}

// Donor holds the donor attributes the compatibility model reads.
type Donor struct {
	ID        string   `json:"id,omitempty"`
	BloodType string   `json:"blood_type,omitempty"`
	Age       *float64 `json:"age,omitempty"`
	OrganType string   `json:"organ_type,omitempty"`
	HLATyping string   `json:"hla_typing,omitempty"`
}

// Recipient holds the recipient attributes the compatibility model reads.
type Recipient struct {
	ID          string   `json:"id,omitempty"`
	BloodType   string   `json:"blood_type,omitempty"`
	Age         *float64 `json:"age,omitempty"`
	OrganNeeded string   `json:"organ_needed,omitempty"`
	HLATyping   string   `json:"hla_typing,omitempty"`
}

// MatchVerdict is the donor-recipient compatibility assessment.
type MatchVerdict struct {
	IsCompatible        bool    `json:"is_compatible"`
	MatchScore          float64 `json:"match_score"`
	BloodTypeMatch      bool    `json:"blood_type_match"`
	TissueCompatibility string  `json:"tissue_compatibility"`
	Recommendation      string  `json:"recommendation"`
	Method              Method  `json:"method"`
}
