package teachload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icar17/teachload/pkg/teachload"
)

func TestEntity_TableNames(t *testing.T) {
	want := map[teachload.Entity]string{
		teachload.EntityDepartment:     "Dipartimenti",
		teachload.EntityDegreeProgram:  "CdL",
		teachload.EntitySector:         "SSD",
		teachload.EntityExam:           "Esami",
		teachload.EntityStaffMember:    "PersonaleStrutturato",
		teachload.EntityAssignmentType: "TipologiaAffidamento",
		teachload.EntityContractType:   "TipologiaContratti",
		teachload.EntityAssignment:     "Affidamenti",
	}
	assert.Len(t, teachload.Entities, len(want))
	for _, e := range teachload.Entities {
		assert.Equal(t, want[e], e.Table(), e.String())
	}
	assert.Equal(t, "Unknown(99)", teachload.Entity(99).String())
}

func TestRecordSet_Records(t *testing.T) {
	set := &teachload.RecordSet{
		Departments: []teachload.Department{{Code: "D1"}, {Code: "D2"}},
		Assignments: []teachload.Assignment{{ID: 1001}},
	}

	deps := set.Records(teachload.EntityDepartment)
	assert.Len(t, deps, 2)
	assert.Equal(t, "D1", deps[0].Key())
	assert.Equal(t, teachload.EntityDepartment, deps[0].Entity())

	asg := set.Records(teachload.EntityAssignment)
	assert.Len(t, asg, 1)
	assert.Equal(t, "1001", asg[0].Key())

	assert.Empty(t, set.Records(teachload.EntityExam))
	assert.Equal(t, 3, set.Len())
}
