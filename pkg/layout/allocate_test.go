package layout

import (
	"reflect"
	"testing"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		area    int
		weights []int
		want    []int
	}{
		{"equal quarters", 100, []int{1, 1, 1, 1}, []int{25, 25, 25, 25}},
		{"proportional", 4, []int{3, 1}, []int{3, 1}},
		{"truncates", 10, []int{1, 1, 1}, []int{3, 3, 3}},
		{"zero weight keeps position", 90, []int{2, 0, 1}, []int{60, 0, 30}},
		{"single weight takes everything", 300 * 300, []int{7}, []int{90000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocate(tt.area, tt.weights)
			if err != nil {
				t.Fatalf("Allocate(%d, %v) error: %v", tt.area, tt.weights, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Allocate(%d, %v) = %v, want %v", tt.area, tt.weights, got, tt.want)
			}
		})
	}
}

func TestAllocateErrors(t *testing.T) {
	tests := []struct {
		name    string
		area    int
		weights []int
		code    apperrors.Code
	}{
		{"zero area", 0, []int{1}, apperrors.ErrCodeDegenerateInput},
		{"negative area", -5, []int{1}, apperrors.ErrCodeDegenerateInput},
		{"empty weights", 100, nil, apperrors.ErrCodeDegenerateInput},
		{"zero total", 100, []int{0, 0}, apperrors.ErrCodeDegenerateInput},
		{"negative weight", 100, []int{1, -1}, apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.area, tt.weights)
			if err == nil {
				t.Fatalf("Allocate(%d, %v) expected error", tt.area, tt.weights)
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("Allocate(%d, %v) code = %v, want %v", tt.area, tt.weights, apperrors.GetCode(err), tt.code)
			}
		})
	}
}

func TestAllocateNeverExceedsArea(t *testing.T) {
	weights := []int{7, 13, 29, 1, 50}
	for _, area := range []int{1, 17, 99, 1000, 12345} {
		got, err := Allocate(area, weights)
		if err != nil {
			t.Fatalf("Allocate(%d) error: %v", area, err)
		}
		sum := 0
		for _, a := range got {
			sum += a
		}
		if sum > area || area-sum >= len(weights) {
			t.Errorf("Allocate(%d) sum = %d, want within (%d, %d]", area, sum, area-len(weights), area)
		}
	}
}
