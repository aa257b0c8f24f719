package ripple

import "testing"

func BenchmarkGet(b *testing.B) {
	obj, _ := Watch(map[string]any{"count": 1}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = obj.Get("count")
	}
}

func BenchmarkSetNotify(b *testing.B) {
	events := 0
	obj, _ := Watch(map[string]any{"count": 0}, func(*Object, string, *Change) {
		events++
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		obj.Set("count", i+1)
	}
}

func BenchmarkTrackedCall(b *testing.B) {
	obj, _ := Watch(map[string]any{
		"a": 1,
		"b": 2,
		"sum": Fn(func(o *Object) any {
			return o.Get("a").(int) + o.Get("b").(int)
		}),
	}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := obj.Call("sum"); err != nil {
			b.Fatal(err)
		}
	}
}
