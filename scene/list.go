package scene

import "github.com/achilleasa/go-spheretrace/types"

// An aggregate of hittable objects. The list does not own its members;
// they are allocated and released elsewhere.
type HittableList struct {
	objects []Hittable
}

// Create a new list from a snapshot of the given objects. Later changes to
// the objects slice do not affect the list; a new list must be built instead.
func NewHittableList(objects ...Hittable) *HittableList {
	l := &HittableList{
		objects: make([]Hittable, len(objects)),
	}
	copy(l.objects, objects)
	return l
}

// Number of objects in the list.
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Test every member against a shrinking interval. Each accepted hit lowers
// the upper bound so the returned record is the nearest intersection
// regardless of member order.
func (l *HittableList) Hit(r types.Ray, rayT types.Interval) (HitRecord, bool) {
	var rec HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for _, obj := range l.objects {
		tmpRec, hit := obj.Hit(r, types.Interval{Min: rayT.Min, Max: closestSoFar})
		if !hit {
			continue
		}
		hitAnything = true
		closestSoFar = tmpRec.T
		rec = tmpRec
	}

	return rec, hitAnything
}

func (*HittableList) hittable() {}
