package fourds

// Registry holds the per-pass lookup state of one decode or encode pass.
// Table indices in the wire format are 1-based; index 0 means "none" and is
// never present in these maps.
//
// A Registry is created per pass and threaded through the codec explicitly;
// it is not safe for concurrent use.
type Registry struct {
	materials   []*Material
	materialIdx map[*Material]uint16

	objects   []*Object
	objectIdx map[*Object]uint16

	// instances maps geometry digests to the table index of the object that
	// owns the geometry. First writer wins.
	instances map[[32]byte]uint16
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		materialIdx: make(map[*Material]uint16),
		objectIdx:   make(map[*Object]uint16),
		instances:   make(map[[32]byte]uint16),
	}
}

// AddMaterial appends mat to the material table and returns its 1-based
// index. A material already in the table keeps its first index.
func (r *Registry) AddMaterial(mat *Material) uint16 {
	if i, ok := r.materialIdx[mat]; ok {
		return i
	}
	r.materials = append(r.materials, mat)
	i := uint16(len(r.materials))
	r.materialIdx[mat] = i
	return i
}

// Material returns the material at 1-based index i, or nil when i is 0 or
// out of range.
func (r *Registry) Material(i uint16) *Material {
	if i == 0 || int(i) > len(r.materials) {
		return nil
	}
	return r.materials[i-1]
}

// MaterialIndex returns the 1-based index of mat, or 0 when mat is nil or
// not in the table.
func (r *Registry) MaterialIndex(mat *Material) uint16 {
	if mat == nil {
		return 0
	}
	return r.materialIdx[mat]
}

// Materials returns the material table in index order.
func (r *Registry) Materials() []*Material {
	return r.materials
}

// AddObject appends obj to the object table and returns its 1-based index.
func (r *Registry) AddObject(obj *Object) uint16 {
	r.objects = append(r.objects, obj)
	i := uint16(len(r.objects))
	r.objectIdx[obj] = i
	return i
}

// Object returns the object at 1-based index i, or nil when i is 0 or out
// of range.
func (r *Registry) Object(i uint16) *Object {
	if i == 0 || int(i) > len(r.objects) {
		return nil
	}
	return r.objects[i-1]
}

// ObjectIndex returns the 1-based index of obj, or 0 when obj is nil or not
// in the table.
func (r *Registry) ObjectIndex(obj *Object) uint16 {
	if obj == nil {
		return 0
	}
	return r.objectIdx[obj]
}

// Objects returns the object table in index order.
func (r *Registry) Objects() []*Object {
	return r.objects
}

// Instance looks up the owner of the geometry identified by digest. When no
// owner is registered yet, the object at 1-based index owner becomes the
// owner and Instance reports 0. Otherwise it returns the registered owner's
// index.
func (r *Registry) Instance(digest [32]byte, owner uint16) uint16 {
	if i, ok := r.instances[digest]; ok {
		return i
	}
	r.instances[digest] = owner
	return 0
}
