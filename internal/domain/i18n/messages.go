package i18n

// MessageKey identifies a translatable string.
type MessageKey string

const (
	MsgAnalysisFailed   MessageKey = "analysis_failed"
	MsgReportFailed     MessageKey = "report_failed"
	MsgBusy             MessageKey = "busy"
	MsgNameRequired     MessageKey = "name_required"
	MsgSymptomRequired  MessageKey = "symptom_required"
	MsgReportTitle      MessageKey = "report_title"
	MsgFullName         MessageKey = "full_name"
	MsgGender           MessageKey = "gender"
	MsgBirthDate        MessageKey = "birth_date"
	MsgReportTime       MessageKey = "report_time"
	MsgDiagnosisSummary MessageKey = "diagnosis_summary"
	MsgImbalanceSuffix  MessageKey = "imbalance_suffix"
	MsgElementLabel     MessageKey = "element_label"
	MsgSeasonFactor     MessageKey = "season_factor"
	MsgAgeFactor        MessageKey = "age_factor"
	MsgAILogic          MessageKey = "ai_logic"
	MsgDietaryCare      MessageKey = "dietary_care"
	MsgLifestyle        MessageKey = "lifestyle"
	MsgHerbs            MessageKey = "herbs"
	MsgNotice           MessageKey = "notice"
	MsgNoticeText       MessageKey = "notice_text"
	MsgAnonymous        MessageKey = "anonymous"
)

var messages = map[MessageKey]Text{
	MsgAnalysisFailed:   {TH: "การวิเคราะห์ล้มเหลว กรุณาลองใหม่", EN: "Analysis failed. Please try again."},
	MsgReportFailed:     {TH: "การสร้าง PDF ล้มเหลว", EN: "PDF generation failed"},
	MsgBusy:             {TH: "กำลังดำเนินการ กรุณารอสักครู่", EN: "A request is already in progress."},
	MsgNameRequired:     {TH: "กรุณากรอกชื่อ", EN: "Please enter a name."},
	MsgSymptomRequired:  {TH: "กรุณาเลือกอาการอย่างน้อยหนึ่งอาการ", EN: "Please select at least one symptom."},
	MsgReportTitle:      {TH: "รายงานข้อมูลผู้ป่วย", EN: "Patient Medical Report"},
	MsgFullName:         {TH: "ชื่อ-นามสกุล", EN: "Full Name"},
	MsgGender:           {TH: "เพศ", EN: "Gender"},
	MsgBirthDate:        {TH: "วันเกิด", EN: "Birth Date"},
	MsgReportTime:       {TH: "เวลาบันทึก", EN: "Report Time"},
	MsgDiagnosisSummary: {TH: "สรุปผลการวินิจฉัย", EN: "Diagnosis Summary"},
	MsgImbalanceSuffix:  {TH: "กำเริบ", EN: "Imbalance"},
	MsgElementLabel:     {TH: "ธาตุเจ้าเรือน", EN: "Birth Element"},
	MsgSeasonFactor:     {TH: "อุตุสมุฏฐาน", EN: "Seasonal Factor"},
	MsgAgeFactor:        {TH: "อายุสมุฏฐาน", EN: "Age Factor"},
	MsgAILogic:          {TH: "หลักการวิเคราะห์", EN: "Diagnostic Logic"},
	MsgDietaryCare:      {TH: "อาหารที่แนะนำ", EN: "Dietary Care"},
	MsgLifestyle:        {TH: "การปฏิบัติตัว", EN: "Lifestyle"},
	MsgHerbs:            {TH: "สมุนไพรแนะนำ", EN: "Recommended Herbs"},
	MsgNotice:           {TH: "ข้อควรระวัง", EN: "Notice"},
	MsgNoticeText: {
		TH: "ผลการวิเคราะห์นี้เป็นข้อมูลเบื้องต้นตามหลักการแพทย์แผนไทย ไม่สามารถใช้แทนการตรวจวินิจฉัยโดยแพทย์ได้",
		EN: "This analysis is preliminary guidance based on Thai Traditional Medicine and does not replace an examination by a licensed practitioner.",
	},
	MsgAnonymous: {TH: "Anonymous", EN: "Anonymous"},
}

// Message returns the rendering of key in l. Unknown keys render as the key itself.
func Message(key MessageKey, l Locale) string {
	text, ok := messages[key]
	if !ok {
		return string(key)
	}
	return text.In(l)
}
