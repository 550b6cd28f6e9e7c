package assessment

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func organAt(elapsedHours, temperature, condition float64) OrganDescriptor {
	donated := now.Add(-time.Duration(elapsedHours * float64(time.Hour)))
	return OrganDescriptor{
		Type:           "liver",
		DonationTime:   donated.Format(time.RFC3339Nano),
		Temperature:    f(temperature),
		ConditionScore: f(condition),
	}
}

// exactHoursLeft recomputes the liver window for organAt descriptors.
func exactHoursLeft(organ OrganDescriptor) float64 {
	donated, _ := ParseTimestamp(organ.DonationTime)
	tempFactor := 1.0
	if organ.TemperatureC() > 4 {
		tempFactor = 0.7
	}
	return math.Max(0, (12-now.Sub(donated).Hours())*tempFactor*(organ.Condition()/100))
}

// Property: is_viable holds exactly when the unrounded hours left exceed 0.5,
// urgency is a function of those hours alone, and hours_left reports them
// rounded to one decimal.
func TestViabilityVerdictConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("is_viable iff hours_left > 0.5", prop.ForAll(
		func(elapsed, temperature, condition float64) bool {
			organ := organAt(elapsed, temperature, condition)
			v := AssessViabilitySimulated(organ, now)
			exact := exactHoursLeft(organ)
			return v.IsViable == (exact > 0.5) && v.Urgency == UrgencyForHours(exact) && v.HoursLeft == round(exact, 1)
		},
		gen.Float64Range(0, 30),
		gen.Float64Range(-2, 20),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

// Property: hours_left never grows as time passes or as storage warms past 4°C.
func TestViabilityMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("non-increasing in elapsed hours", prop.ForAll(
		func(a, b, condition float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			early := AssessViabilitySimulated(organAt(lo, 4, condition), now)
			late := AssessViabilitySimulated(organAt(hi, 4, condition), now)
			return late.HoursLeft <= early.HoursLeft
		},
		gen.Float64Range(0, 30),
		gen.Float64Range(0, 30),
		gen.Float64Range(0, 100),
	))

	properties.Property("non-increasing in temperature above 4", prop.ForAll(
		func(a, b, elapsed float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			cool := AssessViabilitySimulated(organAt(elapsed, lo, 80), now)
			warm := AssessViabilitySimulated(organAt(elapsed, hi, 80), now)
			return warm.HoursLeft <= cool.HoursLeft
		},
		gen.Float64Range(4, 37),
		gen.Float64Range(4, 37),
		gen.Float64Range(0, 12),
	))

	properties.TestingRun(t)
}

func TestMatchProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	bloodTypes := []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

	properties.Property("equal blood type and age scores 92.5", prop.ForAll(
		func(i int, age float64) bool {
			blood := bloodTypes[i]
			v := MatchDonorRecipient(Donor{BloodType: blood, Age: f(age)}, Recipient{BloodType: blood, Age: f(age)})
			return v.MatchScore == 92.5 && v.IsCompatible && v.TissueCompatibility == TissueExcellent
		},
		gen.IntRange(0, len(bloodTypes)-1),
		gen.Float64Range(0, 90),
	))

	properties.Property("different blood type and 100+ years apart scores 10", prop.ForAll(
		func(age, gap float64) bool {
			v := MatchDonorRecipient(Donor{BloodType: "A+", Age: f(age)}, Recipient{BloodType: "O-", Age: f(age + gap)})
			return v.MatchScore == 10 && !v.IsCompatible && v.TissueCompatibility == TissuePoor
		},
		gen.Float64Range(0, 50),
		gen.Float64Range(100, 200),
	))

	properties.TestingRun(t)
}
