// Package graphicsstate models the PDF graphics and text state machine the
// content stream interpreter drives.
//
// GraphicsState tracks the CTM with its q/Q save stack, the text matrix
// pair maintained between BT and ET, and the text parameters (font and
// size, character and word spacing, horizontal scaling, leading, rise,
// rendering mode). State-changing operators map onto methods: Transform is
// cm, Save/Restore are q/Q, TranslateText is Td, SetTextMatrix is Tm,
// NextLine is T*, AdvanceText moves the text matrix past shown glyphs.
//
// TextPosition and EffectiveFontSize read positions and sizes out in device
// space, which is what makes extracted runs land at page coordinates even
// under rotated or scaled transforms.
package graphicsstate
