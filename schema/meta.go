package schema

// CheckShape checks an author-submitted schema definition against the
// minimal structural contract before anything else walks it. The definition
// must be an object with type "object"; any "properties" bag must be an
// object whose entries are objects, and any "items" must be an object. Nested
// nodes may omit "type" and are then carried through as opaque nodes.
// Every violation is collected into a single *ShapeError.
func CheckShape(def any) error {
	var issues []Issue
	root, ok := asObject(def)
	if !ok {
		return &ShapeError{Issues: []Issue{{Path: Root, Message: "schema definition must be an object"}}}
	}

	rawType, hasType := root.Get("type")
	switch {
	case !hasType:
		issues = append(issues, Issue{Path: Root + ".type", Message: "is required"})
	case rawType != string(TypeObject):
		if _, isString := rawType.(string); !isString {
			issues = append(issues, Issue{Path: Root + ".type", Message: "must be a string"})
		} else {
			issues = append(issues, Issue{Path: Root + ".type", Message: `root schema must have type "object"`})
		}
	}
	checkBody(root, Root, &issues)

	if len(issues) > 0 {
		return &ShapeError{Issues: issues}
	}
	return nil
}

func checkNode(v any, path string, issues *[]Issue) {
	node, ok := asObject(v)
	if !ok {
		*issues = append(*issues, Issue{Path: path, Message: "property definition must be an object"})
		return
	}
	if rawType, hasType := node.Get("type"); hasType {
		if _, isString := rawType.(string); !isString {
			*issues = append(*issues, Issue{Path: path + ".type", Message: "must be a string"})
		}
	}
	checkBody(node, path, issues)
}

func checkBody(node *OrderedMap, path string, issues *[]Issue) {
	if rawProps, has := node.Get("properties"); has {
		props, ok := asObject(rawProps)
		if !ok {
			*issues = append(*issues, Issue{Path: path + ".properties", Message: "must be an object"})
		} else {
			for _, name := range props.Keys() {
				child, _ := props.Get(name)
				checkNode(child, PropertyPath(path, name), issues)
			}
		}
	}

	if rawItems, has := node.Get("items"); has {
		checkNode(rawItems, ItemsPath(path), issues)
	}

	if rawRequired, has := node.Get("required"); has {
		if _, ok := stringList(rawRequired); !ok {
			*issues = append(*issues, Issue{Path: path + ".required", Message: "must be an array of field names"})
		}
	}
}
