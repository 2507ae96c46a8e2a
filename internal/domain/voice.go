package domain

// Voice describes one prebuilt voice offered by the speech provider.
type Voice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

// SpeechModels lists the provider speech models the studio can drive.
var SpeechModels = []string{
	"gemini-2.5-flash-preview-tts",
	"gemini-2.5-pro-preview-tts",
}

// PrebuiltVoices is the static catalog of provider voices. The provider
// identifies voices by name, so ID and Name coincide; Character is the
// provider's one-word description used for display.
var PrebuiltVoices = []Voice{
	{ID: "Zephyr", Name: "Zephyr", Character: "Bright"},
	{ID: "Puck", Name: "Puck", Character: "Upbeat"},
	{ID: "Charon", Name: "Charon", Character: "Informative"},
	{ID: "Kore", Name: "Kore", Character: "Firm"},
	{ID: "Fenrir", Name: "Fenrir", Character: "Excitable"},
	{ID: "Leda", Name: "Leda", Character: "Youthful"},
	{ID: "Orus", Name: "Orus", Character: "Firm"},
	{ID: "Aoede", Name: "Aoede", Character: "Breezy"},
	{ID: "Callirrhoe", Name: "Callirrhoe", Character: "Easy-going"},
	{ID: "Autonoe", Name: "Autonoe", Character: "Bright"},
	{ID: "Enceladus", Name: "Enceladus", Character: "Breathy"},
	{ID: "Iapetus", Name: "Iapetus", Character: "Clear"},
	{ID: "Umbriel", Name: "Umbriel", Character: "Easy-going"},
	{ID: "Algieba", Name: "Algieba", Character: "Smooth"},
	{ID: "Despina", Name: "Despina", Character: "Smooth"},
	{ID: "Erinome", Name: "Erinome", Character: "Clear"},
	{ID: "Algenib", Name: "Algenib", Character: "Gravelly"},
	{ID: "Rasalgethi", Name: "Rasalgethi", Character: "Informative"},
	{ID: "Laomedeia", Name: "Laomedeia", Character: "Upbeat"},
	{ID: "Achernar", Name: "Achernar", Character: "Soft"},
	{ID: "Alnilam", Name: "Alnilam", Character: "Firm"},
	{ID: "Schedar", Name: "Schedar", Character: "Even"},
	{ID: "Gacrux", Name: "Gacrux", Character: "Mature"},
	{ID: "Pulcherrima", Name: "Pulcherrima", Character: "Forward"},
	{ID: "Achird", Name: "Achird", Character: "Friendly"},
	{ID: "Zubenelgenubi", Name: "Zubenelgenubi", Character: "Casual"},
	{ID: "Vindemiatrix", Name: "Vindemiatrix", Character: "Gentle"},
	{ID: "Sadachbia", Name: "Sadachbia", Character: "Lively"},
	{ID: "Sadaltager", Name: "Sadaltager", Character: "Knowledgeable"},
	{ID: "Sulafat", Name: "Sulafat", Character: "Warm"},
}

// IsKnownVoice reports whether the given voice ID is in the catalog.
func IsKnownVoice(id string) bool {
	for _, v := range PrebuiltVoices {
		if v.ID == id {
			return true
		}
	}
	return false
}

// IsKnownModel reports whether the given model ID is supported.
func IsKnownModel(id string) bool {
	for _, m := range SpeechModels {
		if m == id {
			return true
		}
	}
	return false
}
