// internal/models/catalog.go
package models

// Language tags accepted by the pipeline.
const (
	LanguageEnglish = "en"
	LanguageKorean  = "ko"
)

// DefaultLanguage is used when no preference has been persisted yet.
const DefaultLanguage = LanguageKorean

// IsValidLanguage reports whether tag is a supported language tag.
func IsValidLanguage(tag string) bool {
	return tag == LanguageEnglish || tag == LanguageKorean
}

// LanguageName maps a tag to the name used inside model instructions.
func LanguageName(tag string) string {
	if tag == LanguageKorean {
		return "Korean"
	}
	return "English"
}

// VideoStyles is the catalog of selectable visual styles.
var VideoStyles = []string{
	// Cinematic & film
	"Cinematic",
	"Photorealistic",
	"Vintage Film",
	"Film Noir",
	"Documentary",
	"Wes Anderson Style",
	"Tarantino Style",
	"Hollywood Blockbuster",
	"Indie Film",
	"Silent Movie",
	"VHS Tape",

	// Animation & art
	"Anime",
	"Studio Ghibli Style",
	"Disney/Pixar Style",
	"3D Animation",
	"Claymation (Stop Motion)",
	"Cyberpunk",
	"Steampunk",
	"Fantasy",
	"Sci-Fi",
	"Oil Painting",
	"Watercolor",
	"Pencil Sketch",
	"Pixel Art",
	"Comic Book / Graphic Novel",
	"Low Poly 3D",
	"Ukiyo-e",

	// Modern & abstract
	"Glitch Art",
	"Vaporwave",
	"Surrealism",
	"Abstract",
	"Minimalist",
	"GoPro Action",
	"CCTV Footage",
	"Unreal Engine 5",
	"Isometric 3D",
	"Macro Photography",
}

// AspectRatios is the catalog of selectable frame ratios.
var AspectRatios = []string{
	"16:9",
	"9:16",
	"1:1",
	"21:9",
	"4:3",
	"1.43:1",
	"32:9",
}

// CameraMotions is the catalog of camera movement / framing / lens options.
var CameraMotions = []string{
	// Basic movement
	"Static",
	"Pan",
	"Tilt",
	"Zoom In",
	"Zoom Out",
	"Pedestal (Up/Down)",
	"Truck (Left/Right)",
	"Camera Roll",

	// Framing & angles
	"Extreme Close-Up",
	"Close-Up",
	"Medium Shot",
	"Wide Shot",
	"Establishing Shot",
	"Low Angle",
	"High Angle",
	"Overhead / God's Eye",
	"Worm's Eye View",
	"Eye Level",
	"Dutch Angle",

	// Advanced & dynamic
	"Dolly Zoom",
	"Tracking Shot",
	"Crane / Jib Shot",
	"Orbit / Arc",
	"Handheld",
	"Shakey Cam (Chaos)",
	"Drone Flyover",
	"FPV Speed Drone",
	"Follow Shot (Behind)",
	"First Person View (POV)",
	"Gimbal Smooth",
	"Steadicam",
	"Whip Pan",
	"Crash Zoom",

	// Lens & effects
	"Rack Focus",
	"Deep Focus",
	"Shallow Focus (Bokeh)",
	"Fish Eye Lens",
	"Bullet Time",

	// Time & speed
	"Slow Motion",
	"Time-Lapse",
	"Hyper-Lapse",
	"Reverse Motion",
}

// DefaultCameraMotion is used when a migrated record has no usable motion value.
const DefaultCameraMotion = "Static"

var (
	videoStyleSet   = toSet(VideoStyles)
	aspectRatioSet  = toSet(AspectRatios)
	cameraMotionSet = toSet(CameraMotions)
)

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// IsValidStyle reports whether s is a known visual style.
func IsValidStyle(s string) bool {
	_, ok := videoStyleSet[s]
	return ok
}

// IsValidAspectRatio reports whether r is a known aspect ratio.
func IsValidAspectRatio(r string) bool {
	_, ok := aspectRatioSet[r]
	return ok
}

// IsValidCameraMotion reports whether m is a known camera motion.
func IsValidCameraMotion(m string) bool {
	_, ok := cameraMotionSet[m]
	return ok
}

// FilterCameraMotions keeps only known motions, preserving order.
func FilterCameraMotions(motions []string) []string {
	out := make([]string, 0, len(motions))
	for _, m := range motions {
		if IsValidCameraMotion(m) {
			out = append(out, m)
		}
	}
	return out
}
