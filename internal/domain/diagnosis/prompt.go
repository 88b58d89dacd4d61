package diagnosis

import (
	"fmt"
	"strings"

	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/samutthan"
)

// PromptInput is the merged view of patient data and derived factors.
type PromptInput struct {
	Profile Profile
	Record  SymptomRecord
	Weather WeatherContext
	Factors samutthan.Factors
	Locale  i18n.Locale
}

// BuildPrompt assembles the Samutthan 4 instruction block. Missing symptoms
// or notes interpolate as empty text.
func BuildPrompt(in PromptInput) string {
	element := in.Profile.Element
	if element == "" {
		element = in.Factors.Element
	}
	season := in.Weather.Season
	if season == "" {
		season = in.Factors.Season
	}
	onset := strings.TrimSpace(in.Record.Onset)
	if onset == "" {
		onset = "Current time"
	}

	var b strings.Builder
	b.WriteString("Analyze this patient case using Thai Traditional Medicine (TTM) principles \"Samutthan 4\".\n")
	fmt.Fprintf(&b, "PLEASE PROVIDE THE RESPONSE IN %s.\n\n", in.Locale.LanguageName())

	b.WriteString("1. Thatu Samutthan (Elemental Cause):\n")
	fmt.Fprintf(&b, "   - Birth Element (Chao Ruean): %s\n", element)
	fmt.Fprintf(&b, "   - Current Symptoms: %s\n", strings.Join(in.Record.Symptoms, ", "))
	fmt.Fprintf(&b, "   - Extra Notes: %s\n\n", in.Record.Notes)

	b.WriteString("2. Utu Samutthan (Seasonal/Weather Cause):\n")
	fmt.Fprintf(&b, "   - Season: %s\n", season)
	fmt.Fprintf(&b, "   - Current Temp: %d°C\n", in.Weather.TempC)
	fmt.Fprintf(&b, "   - Condition: %s\n\n", in.Weather.Condition)

	b.WriteString("3. Ayu Samutthan (Age Cause):\n")
	fmt.Fprintf(&b, "   - Age Group: %s\n\n", in.Factors.AgeGroup)

	b.WriteString("4. Kala Samutthan (Time Cause):\n")
	fmt.Fprintf(&b, "   - Onset/Current Time: %s\n", onset)
	fmt.Fprintf(&b, "   - Time Factor: %s\n\n", in.Factors.Kala)

	b.WriteString("Use the \"Decision Tree\" logic from TTM scriptures like Vejjasueksa to determine which Dosha (Pitta, Wata, Semha) is currently imbalanced (aggravated, weakened, or damaged).\n")
	b.WriteString("Provide a professional diagnosis and holistic self-care recommendations.")
	return b.String()
}
