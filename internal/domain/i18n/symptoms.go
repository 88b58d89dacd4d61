package i18n

// Symptom is one entry of the selectable symptom catalogue.
type Symptom struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var symptomCatalog = []struct {
	key  string
	text Text
}{
	{"headache", Text{TH: "ปวดศีรษะ", EN: "Headache"}},
	{"dizziness", Text{TH: "เวียนศีรษะ", EN: "Dizziness"}},
	{"fever", Text{TH: "ตัวร้อน/ไข้", EN: "Fever"}},
	{"bloating", Text{TH: "ท้องอืด", EN: "Bloating"}},
	{"fatigue", Text{TH: "อ่อนเพลีย", EN: "Fatigue"}},
	{"muscle_pain", Text{TH: "ปวดเมื่อยกล้ามเนื้อ", EN: "Muscle Pain"}},
	{"insomnia", Text{TH: "นอนไม่หลับ", EN: "Insomnia"}},
	{"cough", Text{TH: "ไอ", EN: "Cough"}},
	{"skin_rash", Text{TH: "ผื่นคัน", EN: "Skin Rash"}},
}

// Symptoms returns the catalogue rendered in l, in display order.
func Symptoms(l Locale) []Symptom {
	out := make([]Symptom, 0, len(symptomCatalog))
	for _, entry := range symptomCatalog {
		out = append(out, Symptom{Key: entry.key, Label: entry.text.In(l)})
	}
	return out
}

// SymptomLabel resolves a catalogue key to its label in l.
func SymptomLabel(key string, l Locale) (string, bool) {
	for _, entry := range symptomCatalog {
		if entry.key == key {
			return entry.text.In(l), true
		}
	}
	return "", false
}
