// Package viz renders the particle field in a terminal.
//
//   - [Term]: a field.Canvas over a cell grid; glyphs for particles and trail
//     points, braille dots for links
//   - [Canvas]: the braille dot grid behind the links
//   - [Theme]: light and dark terminal palettes matching the page modes
//
// Colors are blended over the theme background in Lab space with go-colorful,
// so faint particles fade into the page instead of turning grey.
package viz
