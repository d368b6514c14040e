package shared

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestClassifyStorage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want StorageKind
	}{
		{"nil passes through", nil, StorageOther},
		{"duplicate key", gorm.ErrDuplicatedKey, StorageConstraint},
		{"foreign key", gorm.ErrForeignKeyViolated, StorageConstraint},
		{"invalid db", gorm.ErrInvalidDB, StorageConnectivity},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), StorageConnectivity},
		{"unique violation message", errors.New(`ERROR: duplicate key value violates unique constraint "user_info_pkey"`), StorageConstraint},
		{"missing table", errors.New(`ERROR: relation "repo_info" does not exist`), StorageSchema},
		{"unknown", errors.New("something odd"), StorageOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStorage(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}

			var se *StorageError
			if !errors.As(got, &se) {
				t.Fatalf("expected *StorageError, got %T", got)
			}
			if se.Kind != tt.want {
				t.Errorf("kind = %v, want %v", se.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should unwrap to the cause")
			}
		})
	}
}

func TestClassifyStorageIdempotent(t *testing.T) {
	once := ClassifyStorage(gorm.ErrDuplicatedKey)
	twice := ClassifyStorage(fmt.Errorf("upserting account: %w", once))

	var se *StorageError
	if !errors.As(twice, &se) {
		t.Fatalf("expected *StorageError, got %T", twice)
	}
	if se.Kind != StorageConstraint {
		t.Errorf("kind = %v, want constraint", se.Kind)
	}
}
