package geometry

// gdpWeight samples a 180x360 one-degree GDP raster (row 0 = lat +90, col 0
// = lon -180) at the given geographic point. A nil raster yields uniform
// weight 1, so BuildGrid degrades gracefully when no population data is
// supplied.
func gdpWeight(raster [][]float64, lat, lon float64) float64 {
	if raster == nil {
		return 1
	}
	row := int(90 - lat)
	if row < 0 {
		row = 0
	}
	if row > 179 {
		row = 179
	}
	col := int(lon + 180)
	if col < 0 {
		col = 0
	}
	if col > 359 {
		col = 359
	}
	v := raster[row][col]
	if v < 0 {
		return 0
	}
	return v
}
