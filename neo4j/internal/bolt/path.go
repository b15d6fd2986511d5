/*
 * Copyright (c) "Neo4j"
 * Neo4j Sweden AB [https://neo4j.com]
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      https://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */

package bolt

import "github.com/neo4j-go-bolt/bolt-core/neo4j/dbtype"

// relNode is a path's half-relationship: a relationship without the
// start/end node ids, which the PATH struct instead encodes as a
// separate signed index sequence walking the node list.
type relNode struct {
	id        int64
	elementId string
	name      string
	props     map[string]any
}

// buildPath reconstructs a full dbtype.Path from a PATH struct's three
// fields: the distinct nodes it visits, the distinct half-relationships
// it uses, and the zig-zag sequence of (relationship, node) indexes
// describing the walk. indexes holds pairs: a signed 1-based index into
// relNodes (negative meaning the relationship is traversed
// start<-end relative to the current node) followed by a 0-based index
// into nodes (the node the walk arrives at).
func buildPath(nodes []dbtype.Node, relNodes []*relNode, indexes []int) dbtype.Path {
	path := dbtype.Path{Nodes: nodes}
	if len(indexes) == 0 {
		return path
	}
	path.Relationships = make([]dbtype.Relationship, 0, len(indexes)/2)
	prevNode := nodes[0]
	for i := 0; i < len(indexes); i += 2 {
		relIdx := indexes[i]
		nodeIdx := indexes[i+1]
		nextNode := nodes[nodeIdx]
		rel := relNodes[absInt(relIdx)-1]

		relationship := dbtype.Relationship{
			Id:        rel.id,
			ElementId: rel.elementId,
			Type:      rel.name,
			Props:     rel.props,
		}
		if relIdx > 0 {
			relationship.StartId = prevNode.Id
			relationship.StartElementId = prevNode.ElementId
			relationship.EndId = nextNode.Id
			relationship.EndElementId = nextNode.ElementId
		} else {
			relationship.StartId = nextNode.Id
			relationship.StartElementId = nextNode.ElementId
			relationship.EndId = prevNode.Id
			relationship.EndElementId = prevNode.ElementId
		}
		path.Relationships = append(path.Relationships, relationship)
		prevNode = nextNode
	}
	return path
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
