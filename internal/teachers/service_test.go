package teachers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	next int64
	rows []Teacher
}

func (m *memoryRepo) ListByCenter(ctx context.Context, centerID int64) ([]Teacher, error) {
	var out []Teacher
	for _, t := range m.rows {
		if t.CenterID == centerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(ctx context.Context, t Teacher) (Teacher, error) {
	m.next++
	t.ID = m.next
	m.rows = append(m.rows, t)
	return t, nil
}

func (m *memoryRepo) Delete(ctx context.Context, centerID, id int64) error {
	for i, t := range m.rows {
		if t.ID == id && t.CenterID == centerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestCreateNormalizesSubjects(t *testing.T) {
	svc := NewService(&memoryRepo{})
	created, err := svc.Create(context.Background(), 3, Input{
		Name:     "  Mona Adel ",
		Subjects: []string{"Physics", "physics", " math", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mona Adel", created.Name)
	assert.Equal(t, []string{"physics", "math"}, created.Subjects)
	assert.Equal(t, int64(3), created.CenterID)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(&memoryRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, 3, Input{Name: "A", Subjects: []string{"math"}})
	assert.Error(t, err)
	_, err = svc.Create(ctx, 3, Input{Name: "Karim", Subjects: nil})
	assert.Error(t, err)
	_, err = svc.Create(ctx, 3, Input{Name: "Karim", Subjects: []string{"alchemy"}})
	assert.Error(t, err)
	_, err = svc.Create(ctx, 3, Input{Name: "Karim", Subjects: []string{"math"}, Phone: "0100"})
	assert.Error(t, err)
	_, err = svc.Create(ctx, 0, Input{Name: "Karim", Subjects: []string{"math"}})
	assert.Error(t, err)
}

func TestDeleteScopedToCenter(t *testing.T) {
	svc := NewService(&memoryRepo{})
	ctx := context.Background()
	created, err := svc.Create(ctx, 3, Input{Name: "Karim", Subjects: []string{"math"}, Phone: "+201001234567"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 9, created.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, 3, created.ID))
	list, err := svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, list)
}
