// Package viz holds the render adapters that turn kernel output into
// something a front-end can show:
//
//   - [Scene]: retained 3D surface with traces and a look-at camera.
//     [UpdateCamera] takes the [DirectCamera] path when available and
//     falls back to a full relayout otherwise.
//   - [Canvas]: braille dot grid with per-cell colour; [DrawScene] projects a
//     Scene onto it.
//   - [Raster]: double-buffered pixel surface for the fractal views, with
//     half-block downsampling for terminals.
//   - Themes: [SetTheme] notifies subscribers so views can repaint the
//     current frame.
package viz
