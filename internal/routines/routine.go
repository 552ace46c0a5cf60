package routines

import "time"

// Routine is a reusable named template of planned exercises. Routines
// are shared: any signed-in user can see and start from any of them.
type Routine struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Exercises []ExercisePlan `json:"exercises"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ExercisePlan is one entry in a routine. All target fields are
// optional, informational descriptors; only the name is required.
type ExercisePlan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sets int    `json:"sets,omitempty"`
	Reps string `json:"reps,omitempty"`
	Rest string `json:"rest,omitempty"`
	Day  string `json:"day,omitempty"`
}
