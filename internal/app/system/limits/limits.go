// internal/app/system/limits/limits.go
package limits

// Request body size limits. Variety submissions may embed a base64 image, so
// their ceiling is derived from the configured image limit at the handler.
const (
	// MaxJSONBody bounds ordinary JSON request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// ImageBodySlack covers the base64 padding and quoting around an
	// embedded image on top of the encoded payload itself.
	ImageBodySlack = 1 << 20 // 1 MB
)

// ImageBody returns the body ceiling for requests that may embed a base64
// image of up to maxMB decoded megabytes. Base64 encodes 3 bytes as 4
// characters, so the encoded form of a ceiling-sized image is 4/3 of the
// decoded limit; the JSON allowance and slack sit on top of that.
func ImageBody(maxMB int) int64 {
	encoded := (int64(maxMB)<<20 + 2) / 3 * 4
	return MaxJSONBody + encoded + ImageBodySlack
}
