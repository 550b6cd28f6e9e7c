package catalog

// Organ is a donor organ as listed to coordinators.
type Organ struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	BloodType      string  `json:"bloodType"`
	Age            int     `json:"age"`
	ConditionScore float64 `json:"conditionScore"`
	Location       string  `json:"location"`
}

// Recipient is a waiting-list entry.
type Recipient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BloodType string `json:"bloodType"`
	Age       int    `json:"age"`
	Urgency   string `json:"urgency"`
	WaitTime  string `json:"waitTime"`
	Hospital  string `json:"hospital"`
	Condition string `json:"condition"`
}
