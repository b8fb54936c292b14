package services

import (
	"math"

	"go-task-tracker/backend/internal/models"
)

// BuildProjectTree は平坦なタスク一覧を2階層のプロジェクト一覧に組み立てます。
// 子タスクは入力順を保ち、同じ一覧に親が含まれない子タスクは捨てられます。
func BuildProjectTree(tasks []models.Task) []models.Project {
	projects := []models.Project{}
	index := make(map[int]int)
	for _, t := range tasks {
		if t.ParentTaskID == nil {
			index[t.ID] = len(projects)
			projects = append(projects, models.Project{Task: t, ChildTasks: []models.Task{}})
		}
	}
	for _, t := range tasks {
		if t.ParentTaskID == nil {
			continue
		}
		if i, ok := index[*t.ParentTaskID]; ok {
			projects[i].ChildTasks = append(projects[i].ChildTasks, t)
		}
	}
	return projects
}

// CalculateRollup は子タスクの見積もり時間の合計と、時間で重み付けした進捗を返します。
// 見積もり時間の合計が0の場合、進捗は0です。
func CalculateRollup(children []models.ChildProgress) models.Rollup {
	var total, weighted float64
	for _, c := range children {
		total += c.EstimatedHours
		weighted += c.EstimatedHours * float64(c.Progress)
	}
	if total <= 0 {
		return models.Rollup{EstimatedHours: total}
	}
	return models.Rollup{
		EstimatedHours: total,
		Progress:       int(math.Round(weighted / total)),
	}
}
