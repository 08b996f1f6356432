package preview

import "strings"

// Artwork categories on the thumbnail service, in priority order.
const (
	CategoryBoxart = "Named_Boxarts"
	CategorySnap   = "Named_Snaps"
	CategoryTitle  = "Named_Titles"
)

// Categories lists the remote artwork kinds tried by FetchOnline.
var Categories = []string{CategoryBoxart, CategorySnap, CategoryTitle}

var libretroSystems = map[string]string{
	"nes":      "Nintendo_-_Nintendo_Entertainment_System",
	"snes":     "Nintendo_-_Super_Nintendo_Entertainment_System",
	"genesis":  "Sega_-_Mega_Drive_-_Genesis",
	"sms":      "Sega_-_Master_System_-_Mark_III",
	"gb":       "Nintendo_-_Game_Boy",
	"gbc":      "Nintendo_-_Game_Boy_Color",
	"gba":      "Nintendo_-_Game_Boy_Advance",
	"n64":      "Nintendo_-_Nintendo_64",
	"a2600":    "Atari_-_2600",
	"a7800":    "Atari_-_7800",
	"a5200":    "Atari_-_5200",
	"tg16":     "NEC_-_PC_Engine_-_TurboGrafx_16",
	"neogeo":   "SNK_-_Neo_Geo",
	"arcade":   "MAME",
	"ps1":      "Sony_-_PlayStation",
	"psx":      "Sony_-_PlayStation",
	"segacd":   "Sega_-_Mega-CD_-_Sega_CD",
	"saturn":   "Sega_-_Saturn",
	"s32x":     "Sega_-_32X",
	"c64":      "Commodore_-_64",
	"amiga":    "Commodore_-_Amiga",
	"atarist":  "Atari_-_ST",
	"msx":      "Microsoft_-_MSX",
	"spectrum": "Sinclair_-_ZX_Spectrum",
	"cpc":      "Amstrad_-_CPC",
	"coleco":   "Coleco_-_ColecoVision",
	"intv":     "Mattel_-_Intellivision",
	"vectrex":  "GCE_-_Vectrex",
	"ws":       "Bandai_-_WonderSwan",
	"ngp":      "SNK_-_Neo_Geo_Pocket",
}

// LibretroSystem maps a station short name to the thumbnail service's system
// directory. Unknown names are returned unchanged.
func LibretroSystem(shortName string) string {
	if sys, ok := libretroSystems[strings.ToLower(shortName)]; ok {
		return sys
	}
	return shortName
}

// thumbnailName applies the service's file naming rule: these characters
// are replaced with underscores.
func thumbnailName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '&', '*', '/', ':', '`', '<', '>', '?', '\\', '|', '"':
			return '_'
		}
		return r
	}, name)
}
