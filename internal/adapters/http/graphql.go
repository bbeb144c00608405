package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

// buildSchema creates the GraphQL schema over the sensor service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	attributesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DepartureAttributes",
		Fields: graphql.Fields{
			"destination":  &graphql.Field{Type: graphql.String},
			"platform":     &graphql.Field{Type: graphql.String},
			"direction":    &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"vehicle_type": &graphql.Field{Type: graphql.String},
			"countdown":    &graphql.Field{Type: graphql.Int},
			"barrier_free": &graphql.Field{Type: graphql.Boolean},
			"trafficjam":   &graphql.Field{Type: graphql.Boolean},
			"line_id":      &graphql.Field{Type: graphql.Int},
			"stop_id":      &graphql.Field{Type: graphql.Int},
			"latitude":     &graphql.Field{Type: graphql.Float},
			"longitude":    &graphql.Field{Type: graphql.Float},
		},
	})

	sensorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Sensor",
		Fields: graphql.Fields{
			"unique_id": &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"stop_id":   &graphql.Field{Type: graphql.Int},
			"mode": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(domain.SensorState).Mode), nil
				},
			},
			"state":      &graphql.Field{Type: graphql.String},
			"imminent":   &graphql.Field{Type: graphql.Boolean},
			"attributes": &graphql.Field{Type: attributesType},
			"updated_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"sensors": &graphql.Field{
				Type:        graphql.NewList(sensorType),
				Description: "List sensors, optionally for one stop",
				Args: graphql.FieldConfigArgument{
					"stop_id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					states := deps.Sensors.List()
					stopID, ok := p.Args["stop_id"].(int)
					if !ok {
						return states, nil
					}
					var filtered []domain.SensorState
					for _, s := range states {
						if s.StopID == stopID {
							filtered = append(filtered, s)
						}
					}
					return filtered, nil
				},
			},
			"sensor": &graphql.Field{
				Type:        sensorType,
				Description: "Get a sensor by unique id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					state, err := deps.Sensors.Get(p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return *state, nil
				},
			},
			"sensorsNearby": &graphql.Field{
				Type:        graphql.NewList(sensorType),
				Description: "Sensors whose stop is near a location, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Sensors.Nearby(center, p.Args["radius"].(float64)), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"updateSensor": &graphql.Field{
				Type:        sensorType,
				Description: "Poll a sensor now",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					state, err := deps.Sensors.Refresh(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return *state, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
