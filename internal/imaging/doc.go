// Package imaging post-processes saved screenshots: it reads their header,
// downscales wide captures in place and summarizes what the screen shows.
//
// # Resizing
//
// ResizeToWidth only ever shrinks. An image no wider than the bound is left
// byte-for-byte untouched; a wider one is resampled with a Lanczos filter to
// exactly the bound, height scaled to keep the aspect ratio, and re-encoded
// in its original format. The new file is written next to the old one and
// renamed over it, so a failed resize leaves the original in place.
//
// Resize reports its outcome as a value (resized, skipped or failed) rather
// than an error: the capture pipeline treats every outcome as success.
//
// # Analysis
//
// Analyze works on a 32 pixel wide thumbnail. It reports the average colour,
// whether the screen is a single flat colour (a booting or sleeping
// simulator) and the dominant colours after quantizing each channel to
// multiples of 16.
//
// # Thread Safety
//
// All functions are stateless. Concurrent calls on different files are safe;
// concurrent resizes of the same file race on the final rename and the last
// one wins.
package imaging
