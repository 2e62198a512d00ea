package domain

import (
	"encoding/json"
	"fmt"
)

const (
	nodeTypeLeaf  = "leaf"
	nodeTypeSplit = "split"
)

// nodeDTO is the wire form shared by every adapter.
type nodeDTO struct {
	Type     string     `json:"type" yaml:"type"`
	ID       PaneID     `json:"id,omitempty" yaml:"id,omitempty"`
	Tool     ToolKind   `json:"tool,omitempty" yaml:"tool,omitempty"`
	Axis     *Axis      `json:"axis,omitempty" yaml:"axis,omitempty"`
	Children []*nodeDTO `json:"children,omitempty" yaml:"children,omitempty"`
}

func toDTO(n Node) *nodeDTO {
	switch v := n.(type) {
	case Leaf:
		return &nodeDTO{Type: nodeTypeLeaf, ID: v.ID, Tool: v.Tool}
	case Split:
		axis := v.Axis
		dto := &nodeDTO{Type: nodeTypeSplit, Axis: &axis, Children: make([]*nodeDTO, len(v.Children))}
		for i, c := range v.Children {
			dto.Children[i] = toDTO(c)
		}
		return dto
	default:
		return nil
	}
}

func fromDTO(dto *nodeDTO) (Node, error) {
	if dto == nil {
		return nil, fmt.Errorf("%w: missing node", ErrInvariant)
	}
	switch dto.Type {
	case nodeTypeLeaf:
		return Leaf{ID: dto.ID, Tool: dto.Tool}, nil
	case nodeTypeSplit:
		if dto.Axis == nil {
			return nil, fmt.Errorf("%w: split without axis", ErrInvalidAxis)
		}
		children := make([]Node, len(dto.Children))
		for i, c := range dto.Children {
			child, err := fromDTO(c)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return Split{Axis: *dto.Axis, Children: children}, nil
	default:
		return nil, fmt.Errorf("unknown node type %q", dto.Type)
	}
}

// MarshalJSON implements json.Marshaler.
func (l Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDTO(l))
}

// MarshalJSON implements json.Marshaler.
func (s Split) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDTO(s))
}

// MarshalNode encodes any node to JSON.
func MarshalNode(n Node) ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return json.Marshal(toDTO(n))
}

// UnmarshalNode decodes a node produced by MarshalNode.
func UnmarshalNode(data []byte) (Node, error) {
	var dto nodeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode node: %w", err)
	}
	return fromDTO(&dto)
}
