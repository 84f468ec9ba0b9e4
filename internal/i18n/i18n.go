// Package i18n holds the localized prompts shown to candidates.
package i18n

import "strings"

// Language is one of the supported interview languages.
type Language string

const (
	English Language = "English"
	Spanish Language = "Spanish"
	French  Language = "French"
	Hindi   Language = "Hindi"
)

// Languages lists the supported languages in negotiation order.
var Languages = []Language{English, Spanish, French, Hindi}

// Key identifies a translatable string.
type Key string

const (
	KeyLanguagePrompt Key = "language_prompt"
	KeyLanguageRetry  Key = "language_retry"
	KeyGreeting       Key = "greeting"
	KeyAskName        Key = "q_name"
	KeyAskEmail       Key = "q_email"
	KeyAskPhone       Key = "q_phone"
	KeyAskRole        Key = "q_role"
	KeyAskExperience  Key = "q_yoe"
	KeyAskLocation    Key = "q_loc"
	KeyAskTechStack   Key = "q_stack"
	KeyEnd            Key = "end"
	KeyWait           Key = "wait"
	KeyDownload       Key = "download"
)

// ParseLanguage matches a language name case-insensitively.
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, lang := range Languages {
		if strings.EqualFold(string(lang), s) {
			return lang, true
		}
	}
	return "", false
}

// Text returns the string for key in lang, falling back to English when the
// language or the key is missing. Unknown keys yield an empty string.
func Text(lang Language, key Key) string {
	if table, ok := translations[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	return translations[English][key]
}

var translations = map[Language]map[Key]string{
	English: {
		KeyLanguagePrompt: "👋 Hello! In which language would you like to continue? (English, Spanish, French, Hindi)",
		KeyLanguageRetry:  "I didn't catch that. Please choose: English, Spanish, French, or Hindi.",
		KeyGreeting:       "Hello! I’m TalentScout. I’ll collect a few details and then conduct a technical assessment. Say **bye** to exit.\n\n**Shall we start?**",
		KeyAskName:        "First, what is your full name?",
		KeyAskEmail:       "What is your email address?",
		KeyAskPhone:       "What is your phone number?",
		KeyAskRole:        "What position are you applying for?",
		KeyAskExperience:  "How many years of experience do you have?",
		KeyAskLocation:    "Where are you currently located?",
		KeyAskTechStack:   "Finally, please list your Tech Stack (e.g., Python, SQL, React).",
		KeyEnd:            "Thank you! The interview is complete. A recruiter will be in touch.",
		KeyWait:           "Okay, standing by. Type **'start'** when ready.",
		KeyDownload:       "📥 Download Transcript",
	},
	Spanish: {
		KeyGreeting:      "¡Hola! Soy TalentScout. Recopilaré algunos detalles y haré una evaluación técnica. Di **adiós** para salir.\n\n**¿Empezamos?**",
		KeyAskName:       "Primero, ¿cuál es tu nombre completo?",
		KeyAskEmail:      "¿Cuál es tu correo electrónico?",
		KeyAskPhone:      "¿Cuál es tu número de teléfono?",
		KeyAskRole:       "¿A qué puesto estás aplicando?",
		KeyAskExperience: "¿Cuántos años de experiencia tienes?",
		KeyAskLocation:   "¿Dónde te encuentras actualmente?",
		KeyAskTechStack:  "Finalmente, lista tu Tech Stack (ej. Python, SQL, React).",
		KeyEnd:           "¡Gracias! La entrevista ha terminado. Un reclutador te contactará.",
		KeyWait:          "Bien, espera. Escribe **'empezar'** cuando estés listo.",
		KeyDownload:      "📥 Descargar Transcripción",
	},
	French: {
		KeyGreeting:      "Bonjour! Je suis TalentScout. Je vais recueillir quelques détails puis effectuer une évaluation technique. Dites **au revoir** pour quitter.\n\n**On commence?**",
		KeyAskName:       "Tout d'abord, quel est votre nom complet?",
		KeyAskEmail:      "Quel est votre adresse email?",
		KeyAskPhone:      "Quel est votre numéro de téléphone?",
		KeyAskRole:       "Pour quel poste postulez-vous?",
		KeyAskExperience: "Combien d'années d'expérience avez-vous?",
		KeyAskLocation:   "Où êtes-vous actuellement situé?",
		KeyAskTechStack:  "Enfin, veuillez lister votre Tech Stack (ex. Python, SQL, React).",
		KeyEnd:           "Merci! L'entretien est terminé. Un recruteur vous contactera.",
		KeyWait:          "D'accord. Tapez **'commencer'** quand vous êtes prêt.",
		KeyDownload:      "📥 Télécharger la transcription",
	},
	Hindi: {
		KeyGreeting:      "नमस्ते! मैं TalentScout हूँ। मैं कुछ विवरण एकत्र करूँगा और फिर तकनीकी मूल्यांकन करूँगा। बाहर निकलने के लिए **bye** कहें।\n\n**क्या हम शुरू करें?**",
		KeyAskName:       "सबसे पहले, आपका पूरा नाम क्या है?",
		KeyAskEmail:      "आपका ईमेल पता क्या है?",
		KeyAskPhone:      "आपका फोन नंबर क्या है?",
		KeyAskRole:       "आप किस पद के लिए आवेदन कर रहे हैं?",
		KeyAskExperience: "आपके पास कितने साल का अनुभव है?",
		KeyAskLocation:   "आप वर्तमान में कहाँ स्थित हैं?",
		KeyAskTechStack:  "अंत में, कृपया अपनी Tech Stack बताएं (जैसे Python, SQL, React)।",
		KeyEnd:           "धन्यवाद! साक्षात्कार पूरा हो गया है। एक रिक्रूटर आपसे संपर्क करेगा।",
		KeyWait:          "ठीक है। तैयार होने पर **'start'** टाइप करें।",
		KeyDownload:      "📥 ट्रांसक्रिप्ट डाउनलोड करें",
	},
}
