package assistant

import "testing"

func TestRestockArgs(t *testing.T) {
	id, amount, ok := restockArgs(map[string]interface{}{"product_id": 3.0, "amount": 20.0})
	if !ok || id != 3 || amount != 20 {
		t.Errorf("restockArgs = %d, %d, %v; want 3, 20, true", id, amount, ok)
	}

	// The model may send anything; bad shapes must not panic, just fail.
	bad := []map[string]interface{}{
		{},
		{"product_id": 3.0},
		{"amount": 20.0},
		{"product_id": "three", "amount": 20.0},
		{"product_id": 3.0, "amount": "twenty"},
		{"product_id": nil, "amount": nil},
		{"product_id": -1.0, "amount": 20.0},
	}
	for _, args := range bad {
		if _, _, ok := restockArgs(args); ok {
			t.Errorf("restockArgs(%v) accepted malformed arguments", args)
		}
	}
}
