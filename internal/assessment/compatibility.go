package assessment

import (
	"math"
	"strings"
)

const (
	compatibleScoreThreshold = 70
	excellentTissueThreshold = 85
	bloodMatchBaseScore      = 85
	bloodMismatchBaseScore   = 20
)

// MatchDonorRecipient scores a donor-recipient pair from blood type and age.
// Missing ages default to 30 (donor) and 40 (recipient); a missing blood type
// on either side is never a match.
func MatchDonorRecipient(donor Donor, recipient Recipient) MatchVerdict {
	bloodMatch := donor.BloodType != "" && donor.BloodType == recipient.BloodType

	base := float64(bloodMismatchBaseScore)
	if bloodMatch {
		base = bloodMatchBaseScore
	}
	donorAge := defaultDonorAge
	if donor.Age != nil {
		donorAge = *donor.Age
	}
	recipientAge := defaultRecipientAge
	if recipient.Age != nil {
		recipientAge = *recipient.Age
	}
	ageFactor := math.Max(0, 100-math.Abs(donorAge-recipientAge))

	score := math.Min(100, (base+ageFactor)/2)
	compatible := score > compatibleScoreThreshold

	recommendation := "Consider alternative recipients"
	if compatible {
		recommendation = "Proceed with transplant"
	}

	return MatchVerdict{
		IsCompatible:        compatible,
		MatchScore:          round(score, 1),
		BloodTypeMatch:      bloodMatch,
		TissueCompatibility: tissueTier(score),
		Recommendation:      recommendation,
		Method:              MethodSimulation,
	}
}

func tissueTier(score float64) string {
	switch {
	case score > excellentTissueThreshold:
		return TissueExcellent
	case score > compatibleScoreThreshold:
		return TissueGood
	default:
		return TissuePoor
	}
}

// PairScore ranks an already organ- and blood-matched pair for the matcher
// tool: 50 base, 0.3 per condition point, 3 per urgency level and 5 per
// shared HLA antigen.
func PairScore(conditionScore, urgencyLevel float64, donorHLA, recipientHLA string) float64 {
	score := 50.0
	score += conditionScore * 0.3
	score += urgencyLevel * 3
	score += float64(HLAOverlap(donorHLA, recipientHLA)) * 5
	return round(score, 2)
}

// HLAOverlap counts the distinct antigens present in both comma-separated
// typings. Whitespace inside the typing strings is ignored.
func HLAOverlap(donorHLA, recipientHLA string) int {
	if donorHLA == "" || recipientHLA == "" {
		return 0
	}
	donor := hlaSet(donorHLA)
	overlap := 0
	for antigen := range hlaSet(recipientHLA) {
		if _, ok := donor[antigen]; ok {
			overlap++
		}
	}
	return overlap
}

func hlaSet(typing string) map[string]struct{} {
	typing = strings.Join(strings.Fields(typing), "")
	set := make(map[string]struct{})
	for _, antigen := range strings.Split(typing, ",") {
		set[antigen] = struct{}{}
	}
	return set
}
