package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/minisynth-go"
	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/diag"
	"github.com/cbegin/minisynth-go/internal/midiport"
	"github.com/cbegin/minisynth-go/internal/osc"
)

const (
	windowW = 900
	windowH = 600

	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale
)

var (
	bgColor         = color.RGBA{192, 192, 192, 255}
	panelColor      = color.RGBA{192, 192, 192, 255}
	borderColor     = color.RGBA{128, 128, 128, 255}
	bevelLight      = color.RGBA{255, 255, 255, 255}
	bevelDarker     = color.RGBA{64, 64, 64, 255}
	sunkenBgColor   = color.RGBA{24, 24, 32, 255}
	sliderFillColor = color.RGBA{0, 0, 128, 255}
	keyDownColor    = color.RGBA{0, 0, 128, 255}
	waveColor       = color.RGBA{80, 200, 255, 220}
)

// Physical keys for the five synth keys. Ebiten sees releases, so these are
// momentary, unlike the latched terminal keys.
var playKeys = []ebiten.Key{ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyF, ebiten.KeyG}

type game struct {
	player   *minisynth.Player
	snap     []int16
	specBins []float64

	dragging  controls.Input
	mouseKey  int
	heldByKbd []bool

	textCache map[string]*ebiten.Image
}

func newGame(pl *minisynth.Player) *game {
	return &game{
		player:    pl,
		snap:      make([]int16, diag.DefaultScopeSize),
		specBins:  make([]float64, diag.SpectrumBins),
		dragging:  -1,
		mouseKey:  -1,
		heldByKbd: make([]bool, len(playKeys)),
		textCache: make(map[string]*ebiten.Image, 64),
	}
}

type uiLayout struct {
	knobs    [controls.NumInputs]image.Rectangle
	scope    image.Rectangle
	spectrum image.Rectangle
	keys     []image.Rectangle
	wave     image.Rectangle
}

func (g *game) layoutRects() uiLayout {
	pad := 20
	var l uiLayout
	knobH := 44
	for i := range l.knobs {
		y := pad + i*(knobH+6)
		l.knobs[i] = image.Rect(pad, y, pad+400, y+knobH)
	}
	l.wave = image.Rect(pad+410, pad, windowW-pad, pad+knobH)
	top := pad + int(controls.NumInputs)*(knobH+6) + 6
	l.scope = image.Rect(pad, top, windowW/2-6, top+180)
	l.spectrum = image.Rect(windowW/2+6, top, windowW-pad, top+180)
	keyTop := top + 196
	keyW := (windowW - 2*pad) / len(playKeys)
	for i := range playKeys {
		x := pad + i*keyW
		l.keys = append(l.keys, image.Rect(x+2, keyTop, x+keyW-2, windowH-pad))
	}
	return l
}

func (g *game) Update() error {
	l := g.layoutRects()
	g.handleKeyboard()
	g.handleMouse(l)
	return nil
}

func (g *game) handleKeyboard() {
	for i, k := range playKeys {
		down := ebiten.IsKeyPressed(k)
		if down == g.heldByKbd[i] {
			continue
		}
		g.heldByKbd[i] = down
		if down {
			g.player.PressKey(i)
		} else if g.mouseKey != i {
			g.player.LiftKey(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.player.SetWaveform((g.player.Waveform() + 1) % osc.NumWaveforms)
	}
}

func (g *game) handleMouse(l uiLayout) {
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i, r := range l.knobs {
			if pointInRect(mx, my, r) {
				g.dragging = controls.Input(i)
			}
		}
		for i, r := range l.keys {
			if pointInRect(mx, my, r) {
				g.mouseKey = i
				g.player.PressKey(i)
			}
		}
		if pointInRect(mx, my, l.wave) {
			g.player.SetWaveform((g.player.Waveform() + 1) % osc.NumWaveforms)
		}
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = -1
		if g.mouseKey >= 0 {
			if !g.heldByKbd[g.mouseKey] {
				g.player.LiftKey(g.mouseKey)
			}
			g.mouseKey = -1
		}
	}
	if g.dragging >= 0 {
		r := l.knobs[g.dragging]
		trackX, trackW := sliderTrack(r)
		v := float64(mx-trackX) / float64(trackW) * controls.ADCMax
		g.player.SetKnob(g.dragging, uint16(clamp(v, 0, controls.ADCMax)))
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()
	for i, r := range l.knobs {
		g.drawKnobSlider(screen, r, controls.Input(i))
	}
	g.drawPanel(screen, l.wave)
	g.drawText(screen, fmt.Sprintf("Wave %s  CPU %.1f%%", g.player.Waveform(), g.player.CPULoad()), l.wave.Min.X+8, l.wave.Min.Y+8)

	g.drawDarkPanel(screen, l.scope)
	g.player.Snapshot(g.snap)
	g.drawWaveform(screen, l.scope)

	g.drawDarkPanel(screen, l.spectrum)
	g.drawSpectrum(screen, l.spectrum)

	for i, r := range l.keys {
		fill := color.Color(panelColor)
		if g.player.KeyHeld(i) {
			fill = keyDownColor
		}
		ebitenutil.DrawRect(screen, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), fill)
		drawBorder(screen, r)
		label := string("ASDFG"[i])
		g.drawText(screen, label, r.Min.X+(r.Dx()-charW)/2, r.Max.Y-lineH-8)
	}
}

func (g *game) Layout(int, int) (int, int) { return windowW, windowH }

func sliderTrack(r image.Rectangle) (int, int) {
	return r.Min.X + 170, r.Dx() - 186
}

func (g *game) drawKnobSlider(screen *ebiten.Image, rect image.Rectangle, in controls.Input) {
	g.drawPanel(screen, rect)
	v := g.player.Knob(in)
	g.drawText(screen, fmt.Sprintf("%-9s%4d", in, v), rect.Min.X+8, rect.Min.Y+8)

	trackX, trackW := sliderTrack(rect)
	trackY := rect.Min.Y + rect.Dy()/2 - 4
	ebitenutil.DrawRect(screen, float64(trackX), float64(trackY), float64(trackW), 8, bevelDarker)
	ebitenutil.DrawRect(screen, float64(trackX), float64(trackY), float64(trackW-1), 1, borderColor)
	fillW := int(float64(trackW) * float64(v) / controls.ADCMax)
	if fillW > 2 {
		ebitenutil.DrawRect(screen, float64(trackX+1), float64(trackY+1), float64(fillW-1), 6, sliderFillColor)
	}
	knobX := trackX + fillW - 5
	knobRect := image.Rect(knobX, trackY-4, knobX+10, trackY+12)
	ebitenutil.DrawRect(screen, float64(knobRect.Min.X), float64(knobRect.Min.Y), float64(knobRect.Dx()), float64(knobRect.Dy()), panelColor)
	drawBorder(screen, knobRect)
}

func (g *game) drawWaveform(screen *ebiten.Image, rect image.Rectangle) {
	inner := rect.Inset(6)
	w, h := inner.Dx(), inner.Dy()
	if w < 2 || h < 4 {
		return
	}
	midY := float64(inner.Min.Y + h/2)
	ebitenutil.DrawRect(screen, float64(inner.Min.X), midY, float64(w), 1, color.RGBA{40, 44, 58, 100})
	gain := float64(h/2-2) / 32768
	n := len(g.snap)
	prevX := float64(inner.Min.X)
	prevY := midY - float64(g.snap[0])*gain
	for px := 1; px < w; px++ {
		s := g.snap[px*n/w]
		x := float64(inner.Min.X + px)
		y := midY - float64(s)*gain
		ebitenutil.DrawLine(screen, prevX, prevY, x, y, waveColor)
		prevX, prevY = x, y
	}
}

func (g *game) drawSpectrum(screen *ebiten.Image, rect image.Rectangle) {
	inner := rect.Inset(6)
	mag := g.player.Spectrum()
	barW := float64(inner.Dx()) / float64(len(mag))
	for i, m := range mag {
		// A full-scale sine in one bin reaches 64.
		norm := clamp(m/64, 0, 1)
		prev := g.specBins[i]
		if norm > prev {
			g.specBins[i] = prev*0.3 + norm*0.7
		} else {
			g.specBins[i] = prev*0.85 + norm*0.15
		}
		barH := g.specBins[i] * float64(inner.Dy()-2)
		if barH < 1 {
			barH = 1
		}
		x := float64(inner.Min.X) + float64(i)*barW
		y := float64(inner.Max.Y) - barH
		r, gr, b := spectrumColor(g.specBins[i])
		ebitenutil.DrawRect(screen, x+1, y, barW-1, barH, color.RGBA{r, gr, b, 220})
	}
}

func spectrumColor(v float64) (uint8, uint8, uint8) {
	if v < 0.33 {
		t := v / 0.33
		return uint8(30 + 20*t), uint8(80 + 120*t), uint8(200 + 55*t)
	}
	if v < 0.66 {
		t := (v - 0.33) / 0.33
		return uint8(50 + 140*t), uint8(200 + 30*t), uint8(255 - 100*t)
	}
	t := (v - 0.66) / 0.34
	return uint8(190 + 65*t), uint8(230 - 100*t), uint8(155 - 100*t)
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
}

func (g *game) drawDarkPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), sunkenBgColor)
	drawSunkenBorder(screen, rect)
}

// drawBorder draws a raised bevel.
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
}

func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
}

func (g *game) drawText(screen *ebiten.Image, msg string, x int, y int) {
	if msg == "" {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		img = ebiten.NewImage(max(1, len([]rune(msg))*7), 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 2000 {
			g.textCache = make(map[string]*ebiten.Image, 64)
		}
		g.textCache[msg] = img
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

func main() {
	midiDevice := flag.Int("midi", -2, "portmidi input device id (-1 = default, -2 = none)")
	flag.Parse()

	// The window already owns ebiten's audio context, so audio goes through it.
	pl, err := minisynth.NewPlayer(minisynth.WithBackend(minisynth.BackendEbiten))
	if err != nil {
		log.Fatal(err)
	}
	if err := pl.Start(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	if *midiDevice >= -1 {
		in, err := midiport.Open(*midiDevice, pl.MIDIInput())
		if err != nil {
			log.Fatal(err)
		}
		defer midiport.Terminate()
		defer in.Close()
	}

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("minisynth")
	if err := ebiten.RunGame(newGame(pl)); err != nil {
		log.Fatal(err)
	}
}
