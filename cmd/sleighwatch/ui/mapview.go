package ui

import (
	"strings"

	"sleighwatch/internal/flight"
	"sleighwatch/internal/world"
)

// Map glyphs.
const (
	glyphSky       = ' '
	glyphLand      = '·'
	glyphWaypoint  = '◆'
	glyphDelivered = '✓'
	glyphSleigh    = '✈'
)

// RenderMap draws the normalized [0,100]^2 plane onto a width x height
// character grid: land sketch underneath, waypoints on top, the sleigh
// on top of everything.
func RenderMap(width, height int, wps []*world.Waypoint, pos flight.Position, st Styles) string {
	if width < 2 || height < 2 {
		return ""
	}

	type cell struct {
		ch    rune
		style int // 0 sky, 1 land, 2 waypoint, 3 delivered, 4 sleigh
	}

	grid := make([][]cell, height)
	for row := range grid {
		grid[row] = make([]cell, width)
		for col := range grid[row] {
			// Sample the cell center against the land sketch.
			x := (float64(col) + 0.5) * 100 / float64(width)
			y := (float64(row) + 0.5) * 100 / float64(height)
			if world.OnLand(x, y) {
				grid[row][col] = cell{ch: glyphLand, style: 1}
			} else {
				grid[row][col] = cell{ch: glyphSky, style: 0}
			}
		}
	}

	place := func(x, y float64) (int, int) {
		col := int(x * float64(width) / 100)
		row := int(y * float64(height) / 100)
		if col < 0 {
			col = 0
		}
		if col >= width {
			col = width - 1
		}
		if row < 0 {
			row = 0
		}
		if row >= height {
			row = height - 1
		}
		return row, col
	}

	for _, wp := range wps {
		row, col := place(wp.X, wp.Y)
		if wp.Delivered {
			grid[row][col] = cell{ch: glyphDelivered, style: 3}
		} else {
			grid[row][col] = cell{ch: glyphWaypoint, style: 2}
		}
	}

	sleighRow, sleighCol := place(pos.X, pos.Y)
	grid[sleighRow][sleighCol] = cell{ch: glyphSleigh, style: 4}

	styles := []func(...string) string{
		st.Sky.Render,
		st.Land.Render,
		st.Waypoint.Render,
		st.Delivered.Render,
		st.Sleigh.Render,
	}

	var sb strings.Builder
	for row := range grid {
		if row > 0 {
			sb.WriteByte('\n')
		}
		// Batch runs of the same style into one render call.
		runStart := 0
		for col := 1; col <= width; col++ {
			if col == width || grid[row][col].style != grid[row][runStart].style {
				var run strings.Builder
				for _, c := range grid[row][runStart:col] {
					run.WriteRune(c.ch)
				}
				sb.WriteString(styles[grid[row][runStart].style](run.String()))
				runStart = col
			}
		}
	}
	return sb.String()
}
