package geometry

import "github.com/iudanet/topokeeper/internal/models"

// RemoveSpurs удаляет повторы соседних вершин и шипы: участок c,d,c схлопывается в c.
// Схлопывание повторяется, пока шипов не останется (a,b,c,b,a дает a).
// Сравнение идет только по lon/lat, у оставшихся вершин сохраняются высота и timestamp.
func RemoveSpurs(coords []models.Coord) []models.Coord {
	out := make([]models.Coord, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		n := len(out)
		if n > 0 && out[n-1].SamePosition(c) {
			continue
		}
		if n > 1 && out[n-2].SamePosition(c) {
			out = out[:n-1]
			continue
		}
		out = append(out, c)
	}
	return out
}
