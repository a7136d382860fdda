package benchmarks_test

import (
	"strconv"
	"testing"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/source"
	"github.com/reoring/dskema/types"
)

func userSchema() *dskema.Schema {
	return dskema.MustCompile(dskema.M{
		"id":     types.String,
		"name":   types.String,
		"age":    types.NonNegativeInt,
		"active": types.Boolean,
		"meta":   dskema.M{"score": types.Number},
		"tags":   dskema.M{"$element": types.String, "$optional": true},
	})
}

func user(i int) map[string]any {
	return map[string]any{
		"id":     "u_" + strconv.Itoa(i),
		"name":   "n" + strconv.Itoa(i),
		"age":    i,
		"active": i%2 == 0,
		"meta":   map[string]any{"score": float64(i) / 3},
		"tags":   []any{"a", "b"},
	}
}

func Benchmark_Validate_User_Small(b *testing.B) {
	v := dskema.NewValidator()
	s := userSchema()
	data := user(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if rep, err := v.Validate(s, data); err != nil || !rep.Valid() {
			b.Fatalf("unexpected: %v %v", rep.Errors, err)
		}
	}
}

func Benchmark_Validate_User_Invalid(b *testing.B) {
	v := dskema.NewValidator()
	s := userSchema()
	data := map[string]any{"id": 1, "age": -1, "extra": true}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if rep, _ := v.Validate(s, data); rep.Valid() {
			b.Fatal("expected errors")
		}
	}
}

func Benchmark_Validate_HugeArray(b *testing.B) {
	v := dskema.NewValidator()
	s := dskema.MustCompile(dskema.M{dskema.KeyElement: userSchema()})
	data := make([]any, 10000)
	for i := range data {
		data[i] = user(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if rep, err := v.Validate(s, data); err != nil || !rep.Valid() {
			b.Fatalf("unexpected: %v", err)
		}
	}
}

// Unique ids grow the ledger on every iteration; scans are linear.
func Benchmark_Validate_UniqueLedger(b *testing.B) {
	v := dskema.NewValidator()
	s := dskema.MustCompile(dskema.M{"id": types.Unique(types.Int)})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%1000 == 0 {
			v.ResetUniqueness(s)
		}
		if _, err := v.Validate(s, map[string]any{"id": i}); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeAndValidate_JSON_Small(b *testing.B) {
	v := dskema.NewValidator()
	s := userSchema()
	raw := []byte(`{"id":"u_1","name":"alice","age":30,"active":true,"meta":{"score":1.5}}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data, err := source.DecodeJSONBytes(raw)
		if err != nil {
			b.Fatal(err)
		}
		if ok, err := v.Verify(s, data); err != nil || !ok {
			b.Fatalf("unexpected: %v %v", ok, err)
		}
	}
}
