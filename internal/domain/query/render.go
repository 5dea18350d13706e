package query

import (
	"fmt"

	"github.com/okian/medals/internal/domain/model"
)

func placeName(position int) string {
	switch position {
	case 1:
		return "primer"
	case 2:
		return "segundo"
	case 3:
		return "tercer"
	case model.PositionLast:
		return "último"
	}
	return fmt.Sprintf("%dº", position)
}

func renderLeader(year int, medal model.MedalType, r model.MedalRecord) string {
	metric := "de " + medal.Spanish()
	if medal == model.MedalTotal {
		metric = "en total"
	}
	return fmt.Sprintf("En %d, %s fue el país con más medallas %s, con %d medallas.",
		year, r.Nation, metric, medal.Count(r))
}

func renderPosition(year, position int, r model.MedalRecord) string {
	return fmt.Sprintf("En %d, %s ocupó el %s lugar en el ranking olímpico (posición %d).",
		year, r.Nation, placeName(position), r.Rank)
}

func renderLookup(r model.MedalRecord) string {
	return fmt.Sprintf("En %d, %s ganó %d medallas de oro, %d de plata y %d de bronce, sumando un total de %d medallas (puesto %d del medallero).",
		r.Year, r.Nation, r.Gold, r.Silver, r.Bronze, r.Total, r.Rank)
}

func reasonEmpty() string {
	return "No hay datos de medallas cargados."
}

func reasonYear(year int) string {
	return fmt.Sprintf("No hay datos disponibles del año %d.", year)
}

func reasonCountry(country string, year int) string {
	return fmt.Sprintf("No hay datos de %s en %d.", country, year)
}

func reasonPosition(year, position, available int) string {
	return fmt.Sprintf("No hay suficientes países registrados en %d para mostrar la posición %d (hay %d).",
		year, position, available)
}
