package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"litec/pkg/asm"
	"litec/pkg/compiler"
	"litec/pkg/grid"
	"litec/pkg/utils"
	"litec/pkg/vm"
)

const (
	cols       = 64
	rows       = 24
	charWidth  = 7
	charHeight = 13
	statusRows = 2
)

type Game struct {
	prog   *vm.Program
	vm     *vm.Machine
	screen *grid.Buffer
	canvas *image.RGBA

	stepsPerFrame int
	paused        bool
	err           error
}

func newGame(prog *vm.Program, stepsPerFrame int) *Game {
	g := &Game{
		prog:          prog,
		screen:        grid.New(cols, rows),
		canvas:        image.NewRGBA(image.Rect(0, 0, cols*charWidth, (rows+statusRows)*charHeight)),
		stepsPerFrame: stepsPerFrame,
	}
	g.reset()
	return g
}

func (g *Game) reset() {
	g.screen.Clear()
	g.vm = vm.NewMachine(g.prog)
	g.vm.Output = g.screen
	g.err = nil
}

// advance runs at most one frame's worth of instructions.
func (g *Game) advance() {
	for i := 0; i < g.stepsPerFrame; i++ {
		// Break early if the program finishes or fails
		if g.vm.Halted || g.err != nil {
			return
		}
		if err := g.vm.Step(); err != nil {
			g.err = err
			fmt.Fprintf(g.screen, "\n%v\n", err)
		}
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if !g.paused {
		g.advance()
	}
	return nil
}

func (g *Game) status() string {
	switch {
	case g.err != nil:
		return fmt.Sprintf("%s: error after %d steps  [R]estart [Esc]", g.prog.Class, g.vm.Steps)
	case g.vm.Halted:
		return fmt.Sprintf("%s: finished in %d steps  [R]estart [Esc]", g.prog.Class, g.vm.Steps)
	case g.paused:
		return fmt.Sprintf("%s: paused at step %d  [Space] resume", g.prog.Class, g.vm.Steps)
	}
	return fmt.Sprintf("%s: running, step %d  [Space] pause", g.prog.Class, g.vm.Steps)
}

func (g *Game) Draw(screen *ebiten.Image) {
	draw.Draw(g.canvas, g.canvas.Bounds(), image.Black, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: g.canvas, Src: image.White, Face: basicfont.Face7x13}
	for i := 0; i < g.screen.Len(); i++ {
		r := g.screen.Cell(i)
		if r == 0 || r == ' ' {
			continue
		}
		x, y := grid.GetGridCoords(i, cols)
		d.Dot = fixed.P(x*charWidth, y*charHeight+basicfont.Face7x13.Ascent)
		d.DrawString(string(r))
	}
	screen.WritePixels(g.canvas.Pix)
	ebitenutil.DebugPrintAt(screen, g.status(), 0, rows*charHeight+4)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cols * charWidth, (rows + statusRows) * charHeight
}

func main() {
	stepsPerFrame := flag.Int("steps-per-frame", 2000, "instructions executed per frame")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [-steps-per-frame N] <file.lite | file.j>")
		os.Exit(1)
	}

	src, err := utils.LoadSource(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	assembly := src.Text
	if src.IsLite() {
		res, err := compiler.Compile(src.Text, src.ClassName)
		if err != nil {
			log.Fatalf("Compilation failed: %v", err)
		}
		assembly = res.Assembly
	}
	prog, err := asm.Assemble(assembly)
	if err != nil {
		log.Fatalf("Assembly failed: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cols*charWidth*2, (rows+statusRows)*charHeight*2)
	ebiten.SetWindowTitle("Lite Console")

	if err := ebiten.RunGame(newGame(prog, *stepsPerFrame)); err != nil {
		log.Fatal(err)
	}
}
