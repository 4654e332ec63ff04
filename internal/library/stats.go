package library

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

const (
	topGenresLimit = 8
	byYearLimit    = 10
)

// ComputeStats derives a [models.StatsSnapshot] from a rating set.
//
// The distribution always carries the fixed keys "1".."10" so zero-count
// buckets render distinctly from missing data. An empty set yields an
// average of 0, never NaN.
func ComputeStats(ratings []models.Rating) models.StatsSnapshot {
	snapshot := models.StatsSnapshot{
		Distribution: make(map[string]int, models.MaxRating),
		ByType:       map[string]int{models.MediaMovie: 0, models.MediaTV: 0},
		Genres:       []models.GenreCount{},
		ByYear:       []models.YearCount{},
	}
	for i := models.MinRating; i <= models.MaxRating; i++ {
		snapshot.Distribution[strconv.Itoa(i)] = 0
	}

	if len(ratings) == 0 {
		return snapshot
	}

	sum := 0
	snapshot.Min = models.MaxRating
	genres := map[string]int{}
	years := map[int]int{}

	for _, r := range ratings {
		sum += r.UserRating
		if r.UserRating > snapshot.Max {
			snapshot.Max = r.UserRating
		}
		if r.UserRating < snapshot.Min {
			snapshot.Min = r.UserRating
		}
		if r.UserRating >= models.MinRating && r.UserRating <= models.MaxRating {
			snapshot.Distribution[strconv.Itoa(r.UserRating)]++
		}

		snapshot.ByType[r.Kind()]++

		for _, name := range strings.Split(r.Genres, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				genres[name]++
			}
		}

		if r.Year > 0 {
			years[r.Year]++
		}
	}

	snapshot.Total = len(ratings)
	snapshot.Average = math.Round(float64(sum)/float64(len(ratings))*100) / 100

	for name, count := range genres {
		snapshot.Genres = append(snapshot.Genres, models.GenreCount{Name: name, Count: count})
	}
	sort.Slice(snapshot.Genres, func(i, j int) bool {
		if snapshot.Genres[i].Count != snapshot.Genres[j].Count {
			return snapshot.Genres[i].Count > snapshot.Genres[j].Count
		}
		return snapshot.Genres[i].Name < snapshot.Genres[j].Name
	})
	if len(snapshot.Genres) > topGenresLimit {
		snapshot.Genres = snapshot.Genres[:topGenresLimit]
	}

	for year, count := range years {
		snapshot.ByYear = append(snapshot.ByYear, models.YearCount{Year: year, Count: count})
	}
	sort.Slice(snapshot.ByYear, func(i, j int) bool {
		return snapshot.ByYear[i].Year > snapshot.ByYear[j].Year
	})
	if len(snapshot.ByYear) > byYearLimit {
		snapshot.ByYear = snapshot.ByYear[:byYearLimit]
	}

	return snapshot
}
