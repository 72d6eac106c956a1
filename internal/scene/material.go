package scene

// NodeKind identifies a shader node type.
type NodeKind int

const (
	NodeTexImage NodeKind = iota
	NodePrincipled
	NodeOutput
)

// Shader socket names used by the pipeline's minimal graphs.
const (
	SocketColor     = "Color"
	SocketBaseColor = "Base Color"
	SocketBSDF      = "BSDF"
	SocketSurface   = "Surface"
)

// ShaderNode is one node in a material's shading graph.
type ShaderNode struct {
	Kind  NodeKind
	Image *Image // set on NodeTexImage
}

// ShaderLink connects an output socket of one node to an input socket of
// another.
type ShaderLink struct {
	From       *ShaderNode
	FromSocket string
	To         *ShaderNode
	ToSocket   string
}

// Material is a named shading graph plus a base color factor used when no
// graph is present (imported assets keep their flat color this way).
type Material struct {
	Name      string
	BaseColor [4]float32

	Nodes []*ShaderNode
	Links []*ShaderLink
}

// NewMaterial returns a material with a white base color and no nodes.
func NewMaterial(name string) *Material {
	return &Material{Name: name, BaseColor: [4]float32{1, 1, 1, 1}}
}

// AddNode appends a node to the graph and returns it.
func (mt *Material) AddNode(n *ShaderNode) *ShaderNode {
	mt.Nodes = append(mt.Nodes, n)
	return n
}

// Link connects from.fromSocket to to.toSocket.
func (mt *Material) Link(from *ShaderNode, fromSocket string, to *ShaderNode, toSocket string) {
	mt.Links = append(mt.Links, &ShaderLink{From: from, FromSocket: fromSocket, To: to, ToSocket: toSocket})
}

// input returns the node feeding the given input socket of n, or nil.
func (mt *Material) input(n *ShaderNode, socket string) *ShaderNode {
	for _, l := range mt.Links {
		if l.To == n && l.ToSocket == socket {
			return l.From
		}
	}
	return nil
}

// BaseColorImage walks the graph from the output node back through the
// surface shader to the image feeding its base color. Returns nil when the
// graph is missing or wired differently.
func (mt *Material) BaseColorImage() *Image {
	var out *ShaderNode
	for _, n := range mt.Nodes {
		if n.Kind == NodeOutput {
			out = n
			break
		}
	}
	if out == nil {
		return nil
	}
	surf := mt.input(out, SocketSurface)
	if surf == nil || surf.Kind != NodePrincipled {
		return nil
	}
	tex := mt.input(surf, SocketBaseColor)
	if tex == nil || tex.Kind != NodeTexImage {
		return nil
	}
	return tex.Image
}
