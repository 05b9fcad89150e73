package report

// HomeworkStatus is the three-valued homework completion mark.
type HomeworkStatus int

const (
	HomeworkNotDone HomeworkStatus = 0
	HomeworkPartial HomeworkStatus = 1
	HomeworkDone    HomeworkStatus = 2
)

// Valid reports whether s is one of the known statuses.
func (s HomeworkStatus) Valid() bool {
	return s >= HomeworkNotDone && s <= HomeworkDone
}
