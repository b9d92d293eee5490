package aeno

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Asset is a loaded scene subtree and the clips that animate it
type Asset struct {
	Scene      *Object
	Animations []*Clip
}

// LoadOptions tune asset loading.
// Simplify in (0, 1) reduces untextured meshes to that fraction of their triangles.
type LoadOptions struct {
	Progress ProgressFunc
	Simplify float64
}

// LoadAsset picks a loader from the file extension
func LoadAsset(p string, opts LoadOptions) (*Asset, error) {
	ext := strings.ToLower(assetExt(p))
	switch ext {
	case ".glb", ".gltf":
		return LoadGLTFWithOptions(p, opts)
	case ".obj":
		return loadOBJAsset(p, opts)
	}
	return nil, fmt.Errorf("aeno: unsupported asset type %q", ext)
}

func loadOBJAsset(p string, opts LoadOptions) (*Asset, error) {
	rc, total, err := OpenAsset(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	mesh, err := LoadOBJFromReader(NewProgressReader(rc, total, opts.Progress))
	if err != nil {
		return nil, err
	}
	if f := opts.Simplify; f > 0 && f < 1 && !mesh.HasTexCoords() {
		mesh = SimplifyMesh(mesh, f)
	}
	base := assetBase(p)
	name := strings.TrimSuffix(base, assetExt(base))
	root := NewGroup("Scene")
	root.Add(NewMeshObject(name, mesh, nil))
	return &Asset{Scene: root}, nil
}

func assetExt(p string) string {
	if IsURL(p) {
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		return path.Ext(p)
	}
	return filepath.Ext(p)
}

func assetBase(p string) string {
	if IsURL(p) {
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		return path.Base(p)
	}
	return filepath.Base(p)
}

func fileSize(p string) int64 {
	info, err := os.Stat(p)
	if err != nil {
		return -1
	}
	return info.Size()
}
