package model

// Item is one persisted item, possibly a container holding further items.
// Depot chests, reward containers, the inbox and the store inbox are all
// Item trees rooted at a container.
type Item struct {
	ServerID   uint16            `json:"server_id"`
	Count      uint16            `json:"count"`
	Tier       uint8             `json:"tier,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Content    []*Item           `json:"content,omitempty"`
}

// Clone deep-copies the item tree.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := &Item{
		ServerID: i.ServerID,
		Count:    i.Count,
		Tier:     i.Tier,
	}
	if i.Attributes != nil {
		out.Attributes = make(map[string]string, len(i.Attributes))
		for k, v := range i.Attributes {
			out.Attributes[k] = v
		}
	}
	for _, child := range i.Content {
		out.Content = append(out.Content, child.Clone())
	}
	return out
}

// TotalCount sums the item count of the tree, containers included.
func (i *Item) TotalCount() int {
	if i == nil {
		return 0
	}
	total := 1
	for _, child := range i.Content {
		total += child.TotalCount()
	}
	return total
}
