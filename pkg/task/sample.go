package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SampleTasks returns the fixed demo dataset served on the listing path
// when the store is unreachable and the sample fallback is enabled.
func SampleTasks() []Task {
	return []Task{
		{
			ID:          sampleID(1),
			Title:       "Estudar React",
			Description: "Aprender hooks e context API",
			Color:       "#ff9800",
			IsFavorite:  true,
			CreatedAt:   sampleDate("2024-01-15"),
			UpdatedAt:   sampleDate("2024-01-15"),
		},
		{
			ID:          sampleID(2),
			Title:       "Implementar autenticação",
			Description: "Adicionar login e registro de usuários",
			Color:       "#2196f3",
			IsFavorite:  false,
			CreatedAt:   sampleDate("2024-01-14"),
			UpdatedAt:   sampleDate("2024-01-14"),
		},
		{
			ID:          sampleID(3),
			Title:       "Otimizar performance",
			Description: "Melhorar tempo de carregamento das páginas",
			Color:       "#4caf50",
			IsFavorite:  true,
			CreatedAt:   sampleDate("2024-01-13"),
			UpdatedAt:   sampleDate("2024-01-13"),
		},
		{
			ID:          sampleID(4),
			Title:       "Documentar API",
			Description: "Criar documentação completa da API REST",
			Color:       "#9c27b0",
			IsFavorite:  false,
			CreatedAt:   sampleDate("2024-01-12"),
			UpdatedAt:   sampleDate("2024-01-12"),
		},
		{
			ID:          sampleID(5),
			Title:       "Implementar testes",
			Description: "Adicionar testes unitários e de integração",
			Color:       "#f44336",
			IsFavorite:  false,
			CreatedAt:   sampleDate("2024-01-11"),
			UpdatedAt:   sampleDate("2024-01-11"),
		},
	}
}

// FilterSamples applies the listing filter to the sample dataset,
// keeping the dataset's own ordering.
func FilterSamples(tasks []Task, filter Filter) []Task {
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.FavoritesOnly && !t.IsFavorite {
			continue
		}
		if filter.Color != "" && t.Color != filter.Color {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func sampleID(n byte) primitive.ObjectID {
	var id primitive.ObjectID
	id[len(id)-1] = n
	return id
}

func sampleDate(date string) time.Time {
	parsed, _ := time.Parse("2006-01-02", date)
	return parsed
}
