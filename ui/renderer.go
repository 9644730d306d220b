package ui

import (
	"fmt"
	"time"

	"snake-autopilot/game"
	"snake-autopilot/game/entity"
	"snake-autopilot/game/types"
	"snake-autopilot/ui/loop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxScores     = 200 // Maximum number of scores to show in graph
	borderPadding = 10
	statsWidth    = 220
	minWindow     = 480
)

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	graphHeight     int32
	graphWidth      int32
	gameWidth       int32
	gameHeight      int32
	statsPanel      int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Run opens a window sized for the board and presents it until the window
// closes, Q is pressed, or a won board has been held on screen.
func (r *Renderer) Run(board *game.Game, tick time.Duration, cellSize int) error {
	width := int32(board.Grid.Width*cellSize) + 2*borderPadding + statsWidth
	height := int32(board.Grid.Height*cellSize) + 2*borderPadding
	rl.InitWindow(max(width, minWindow), max(height, minWindow), "Snake Autopilot - "+string(board.Navigator().Kind()))
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	r.UpdateDimensions()

	driver := loop.New(board, tick)
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		if rl.IsWindowResized() {
			r.UpdateDimensions()
		}

		done, err := driver.Step(time.Now())
		if err != nil {
			return err
		}
		r.Draw(board.View(), board.Color())
		if done {
			break
		}
	}
	return nil
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	r.statsPanel = min(statsWidth, r.screenWidth/3)
	r.gameWidth = r.screenWidth - r.statsPanel
	r.gameHeight = r.screenHeight

	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5
}

func (r *Renderer) Draw(v game.View, c entity.Color) {
	r.UpdateDimensions()
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := max(min(r.screenHeight/30, r.statsPanel/12), 10)
	lineHeight := fontSize + fontSize/3

	availableWidth := r.gameWidth - (borderPadding * 2)
	availableHeight := r.gameHeight - (borderPadding * 2)
	cellW := availableWidth / int32(v.Grid.Width)
	cellH := availableHeight / int32(v.Grid.Height)
	r.cellSize = max(min(cellW, cellH), 1)

	r.totalGridWidth = r.cellSize * int32(v.Grid.Width)
	r.totalGridHeight = r.cellSize * int32(v.Grid.Height)
	r.offsetX = borderPadding + (availableWidth-r.totalGridWidth)/2
	r.offsetY = (r.screenHeight - r.totalGridHeight) / 2

	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.DarkGray)
	for x := 0; x < v.Grid.Width; x++ {
		for y := 0; y < v.Grid.Height; y++ {
			rl.DrawRectangleLines(r.cellX(x), r.cellY(y), r.cellSize, r.cellSize, rl.Gray)
		}
	}

	if v.HasTarget {
		rl.DrawRectangle(r.cellX(v.Target.X), r.cellY(v.Target.Y), r.cellSize, r.cellSize, rl.Red)
	}

	body := rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
	for i := len(v.Body) - 1; i > 0; i-- {
		p := v.Body[i]
		color := body
		if i == len(v.Body)-1 { // Tail
			color = rl.White
		}
		rl.DrawRectangle(r.cellX(p.X), r.cellY(p.Y), r.cellSize, r.cellSize, color)
	}
	head := rl.Color{
		R: uint8(min(float32(c.R)*1.3, 255)),
		G: uint8(min(float32(c.G)*1.3, 255)),
		B: uint8(min(float32(c.B)*1.3, 255)),
		A: 255,
	}
	rl.DrawRectangle(r.cellX(v.Head.X), r.cellY(v.Head.Y), r.cellSize, r.cellSize, head)
	r.drawDirection(v.Head, v.Direction)

	rl.DrawText(fmt.Sprintf("Score: %d", v.Score), r.offsetX+5, r.offsetY+5, fontSize, rl.White)

	switch v.Status {
	case game.Won:
		r.drawBanner("Board filled!", fontSize, rl.Green)
	case game.Lost:
		r.drawBanner(fmt.Sprintf("Game Over: %s (Restarting...)", v.Collision), fontSize, body)
	case game.Stalled:
		r.drawBanner("Stalled (Restarting...)", fontSize, body)
	}

	r.drawStatsPanel(v, body, fontSize, lineHeight)
	rl.EndDrawing()
}

func (r *Renderer) cellX(x int) int32 {
	return r.offsetX + int32(x)*r.cellSize
}

func (r *Renderer) cellY(y int) int32 {
	return r.offsetY + int32(y)*r.cellSize
}

func (r *Renderer) drawDirection(p types.Point, dir types.Direction) {
	headX := float32(r.cellX(p.X))
	headY := float32(r.cellY(p.Y))
	cell := float32(r.cellSize)
	half := cell / 2

	switch dir {
	case types.Right:
		rl.DrawTriangle(
			rl.Vector2{X: headX + cell, Y: headY + half},
			rl.Vector2{X: headX + half, Y: headY},
			rl.Vector2{X: headX + half, Y: headY + cell},
			rl.Yellow)
	case types.Left:
		rl.DrawTriangle(
			rl.Vector2{X: headX, Y: headY + half},
			rl.Vector2{X: headX + half, Y: headY + cell},
			rl.Vector2{X: headX + half, Y: headY},
			rl.Yellow)
	case types.Down:
		rl.DrawTriangle(
			rl.Vector2{X: headX + half, Y: headY + cell},
			rl.Vector2{X: headX + cell, Y: headY + half},
			rl.Vector2{X: headX, Y: headY + half},
			rl.Yellow)
	default:
		rl.DrawTriangle(
			rl.Vector2{X: headX + half, Y: headY},
			rl.Vector2{X: headX, Y: headY + half},
			rl.Vector2{X: headX + cell, Y: headY + half},
			rl.Yellow)
	}
}

func (r *Renderer) drawBanner(text string, fontSize int32, color rl.Color) {
	textWidth := rl.MeasureText(text, fontSize)
	rl.DrawText(text,
		r.offsetX+(r.totalGridWidth-textWidth)/2,
		r.offsetY+r.totalGridHeight/2-fontSize/2,
		fontSize, color)
}

func (r *Renderer) drawStatsPanel(v game.View, color rl.Color, fontSize, lineHeight int32) {
	statsX := r.gameWidth + 5
	statsY := int32(10)

	rl.DrawRectangle(statsX-5, 0, r.statsPanel+5, r.screenHeight, rl.DarkGray)

	rl.DrawText(fmt.Sprintf("Navigator: %s", v.Navigator), statsX, statsY, fontSize, rl.White)
	statsY += lineHeight
	rl.DrawText(fmt.Sprintf("Grid: %s", v.Grid), statsX, statsY, fontSize, rl.White)
	statsY += lineHeight * 3 / 2

	rl.DrawText("High Scores:", statsX, statsY, fontSize, rl.White)
	statsY += lineHeight
	rl.DrawText(fmt.Sprintf("Session: %d", v.SessionHigh), statsX+10, statsY, fontSize, color)
	statsY += lineHeight
	rl.DrawText(fmt.Sprintf("All-Time: %d", v.HighScore), statsX+10, statsY, fontSize, color)
	statsY += lineHeight * 3 / 2

	rl.DrawText("Round:", statsX, statsY, fontSize, rl.White)
	statsY += lineHeight
	rl.DrawText(fmt.Sprintf("Length: %d/%d", len(v.Body), v.Grid.Cells()), statsX+10, statsY, fontSize, color)
	statsY += lineHeight
	rl.DrawText(fmt.Sprintf("Steps: %d", v.Steps), statsX+10, statsY, fontSize, color)

	r.drawPerformanceGraph(v.History, statsX, fontSize, color)
}

func (r *Renderer) drawPerformanceGraph(scores []int, graphX, fontSize int32, color rl.Color) {
	graphHeight := r.graphHeight
	graphY := r.screenHeight - graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, r.graphWidth, graphHeight, rl.White)
	rl.DrawText("Performance", graphX, graphY-fontSize-5, fontSize, rl.White)
	rl.DrawText(fmt.Sprintf("Rounds: %d", len(scores)), graphX, r.screenHeight-fontSize-5, fontSize, rl.White)

	if len(scores) < 2 {
		return
	}

	maxScore := 1
	total := 0
	for _, score := range scores {
		if score > maxScore {
			maxScore = score
		}
		total += score
	}
	avgScore := float32(total) / float32(len(scores))

	for j := 1; j < len(scores); j++ {
		x1 := graphX + int32(float32(r.graphWidth)*float32(j-1)/float32(maxScores))
		y1 := graphY + graphHeight - int32(float32(graphHeight)*float32(scores[j-1])/float32(maxScore))
		x2 := graphX + int32(float32(r.graphWidth)*float32(j)/float32(maxScores))
		y2 := graphY + graphHeight - int32(float32(graphHeight)*float32(scores[j])/float32(maxScore))
		rl.DrawLine(x1, y1, x2, y2, color)
	}

	// Dashed average
	avgY := graphY + graphHeight - int32(float32(graphHeight)*avgScore/float32(maxScore))
	for x := graphX; x < graphX+r.graphWidth; x += 5 {
		rl.DrawLine(x, avgY, x+2, avgY, color)
	}
}
