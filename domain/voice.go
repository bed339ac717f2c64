package domain

import (
	"fmt"
	"strings"
)

// DefaultVoice is the synthesis voice used when no mapping matches.
const DefaultVoice = "Matthew"

// languageVoices maps a language-region tag to its neural synthesis voice.
var languageVoices = map[string]string{
	"en-US": "Matthew",
	"en-GB": "Amy",
	"pt-BR": "Camila",
	"es-ES": "Lucia",
	"fr-FR": "Lea",
	"de-DE": "Vicki",
	"it-IT": "Bianca",
	"ja-JP": "Takumi",
	"ko-KR": "Seoyeon",
	"zh-CN": "Zhiyu",
}

// VoiceFor resolves the synthesis voice for a language tag.
// Fallback order: exact language-region tag, then the primary-language
// heuristic tag (e.g. "fr" -> "fr-FR"), then the default voice.
func VoiceFor(language string) string {
	if voice, ok := languageVoices[language]; ok {
		return voice
	}
	primary := strings.SplitN(language, "-", 2)[0]
	if voice, ok := languageVoices[fmt.Sprintf("%s-%s", primary, strings.ToUpper(primary))]; ok {
		return voice
	}
	return DefaultVoice
}
