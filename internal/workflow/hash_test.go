package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskIDStableUnderReordering(t *testing.T) {
	// The id only depends on name+info, never on position in the file, so
	// reordering a workflow's rows must never change a task's log path.
	id1 := TaskID("deploy", "prod box")
	id2 := TaskID("deploy", "prod box")
	assert.Equal(t, id1, id2)
}

func TestTaskIDDistinguishesSameNameDifferentInfo(t *testing.T) {
	id1 := TaskID("deploy", "prod")
	id2 := TaskID("deploy", "staging")
	assert.NotEqual(t, id1, id2)
}

func TestTaskIDSanitizesName(t *testing.T) {
	id := TaskID("my task/with spaces!", "info")
	assert.Regexp(t, `^[a-zA-Z0-9_-]+_[0-9a-f]{8}$`, id)
}

func TestTaskIDEmptyNameFallsBackToPlaceholder(t *testing.T) {
	id := TaskID("***", "info")
	assert.Regexp(t, `^task_[0-9a-f]{8}$`, id)
}

func TestStructuralHashStableForIdenticalSteps(t *testing.T) {
	a := []StepSpec{{Header: "build", Command: "make"}, {Header: "test", Command: "make test"}}
	b := []StepSpec{{Header: "build", Command: "make"}, {Header: "test", Command: "make test"}}
	assert.Equal(t, StructuralHash(a), StructuralHash(b))
}

func TestStructuralHashChangesWithCommand(t *testing.T) {
	a := []StepSpec{{Header: "build", Command: "make"}}
	b := []StepSpec{{Header: "build", Command: "make all"}}
	assert.NotEqual(t, StructuralHash(a), StructuralHash(b))
}

func TestStructuralHashChangesWithHeaderRename(t *testing.T) {
	a := []StepSpec{{Header: "build", Command: "make"}}
	b := []StepSpec{{Header: "compile", Command: "make"}}
	assert.NotEqual(t, StructuralHash(a), StructuralHash(b), "renaming a step column must invalidate the task")
}

func TestStructuralHashOneTaskUnaffectedByAnother(t *testing.T) {
	taskA := []StepSpec{{Header: "build", Command: "make"}}
	before := StructuralHash(taskA)

	// Editing an unrelated task's steps never touches this hash's inputs.
	_ = StructuralHash([]StepSpec{{Header: "build", Command: "make clean"}})
	after := StructuralHash(taskA)

	assert.Equal(t, before, after)
}
