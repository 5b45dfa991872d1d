// Package imaging provides the raster operations behind the canvas editor.
//
// It covers loading and caching source images, cutting pixel regions out of
// a raster, encoding rasters as PNG (raw bytes or base64 for transport), and
// drawing the translucent marquee overlay shown while a selection gesture is
// in progress.
//
// # Coordinate System
//
// Raster coordinates are integer pixels with (0,0) at the top-left corner.
// Regions follow image.Rectangle semantics: Min is inclusive, Max exclusive.
// Canvas coordinates (float64, see package geometry) are converted to raster
// pixels by the callers in package scene.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never mutate their source images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions that do not overlap the source raster
//   - Empty regions (zero width or height)
//   - File I/O and decode errors during loading
//   - Malformed color strings
package imaging
