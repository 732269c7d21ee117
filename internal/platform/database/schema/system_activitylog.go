package schema

// SystemActivityLogTable represents the 'system.activitylog' table
type SystemActivityLogTable struct {
	Table      string
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	EntityName string
	CreatedAt  string
}

// SystemActivityLog is the schema definition for system.activitylog
var SystemActivityLog = SystemActivityLogTable{
	Table:      "system.activitylog",
	ID:         "id",
	ActorID:    "actorid",
	Action:     "action",
	EntityType: "entitytype",
	EntityID:   "entityid",
	EntityName: "entityname",
	CreatedAt:  "createdat",
}
