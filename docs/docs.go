// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/records": {
            "get": {"tags": ["leaderboards"], "summary": "All time kill records of every game mode", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/records/{gameMode}": {
            "get": {"tags": ["leaderboards"], "summary": "All time kill records of a game mode", "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/gameMode"}],
                "responses": {"200": {"description": "OK"}, "400": {"$ref": "#/responses/error"}}}
        },
        "/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "List tournaments", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "game_mode", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"$ref": "#/responses/error"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Create a tournament", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}],
                "responses": {"201": {"description": "Created"}, "409": {"$ref": "#/responses/error"}, "422": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/active/{gameMode}": {
            "get": {"tags": ["tournaments"], "summary": "Get the active tournament of a game mode", "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/gameMode"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}": {
            "get": {"tags": ["tournaments"], "summary": "Get a tournament", "parameters": [{"$ref": "#/parameters/tournamentID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Update tournament details",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.UpdateTournamentInput"}}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}, "409": {"$ref": "#/responses/error"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Delete a tournament with its teams, matches and leaderboards",
                "parameters": [{"$ref": "#/parameters/tournamentID"}],
                "responses": {"204": {"description": "No Content"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/activate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Make a tournament the active one of its game mode",
                "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/stats": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Recompute the stored tournament counters",
                "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/archive": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Upload a JSON snapshot of the tournament to object storage",
                "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"201": {"description": "Created"}, "404": {"$ref": "#/responses/error"}, "503": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/overview": {
            "get": {"tags": ["tournaments"], "summary": "Tournament, matches and kill leaderboard in one call",
                "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/progress": {
            "get": {"tags": ["matches"], "summary": "Generation and completion state of every phase",
                "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/teams": {
            "get": {"tags": ["teams"], "summary": "List the teams of a tournament",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"type": "string", "name": "status", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Register a team with its roster",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RegisterTeamInput"}}],
                "responses": {"201": {"description": "Created"}, "404": {"$ref": "#/responses/error"}, "409": {"$ref": "#/responses/error"}, "422": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/teams/{teamID}": {
            "get": {"tags": ["teams"], "summary": "Get one team", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/teamID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Delete a team and its players",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/teamID"}],
                "responses": {"204": {"description": "No Content"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/teams/{teamID}/reject": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Reject a whole team",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/teamID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/teams/{teamID}/players/{playerID}/validate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Validate a player of a team",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/teamID"}, {"$ref": "#/parameters/playerID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/teams/{teamID}/players/{playerID}/reject": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Reject a player of a team",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/teamID"}, {"$ref": "#/parameters/playerID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/phases/{phase}": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["matches"], "summary": "Generate the matches of a phase",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/phase"}],
                "responses": {"201": {"description": "Created"}, "400": {"$ref": "#/responses/error"}, "409": {"$ref": "#/responses/error"}, "422": {"$ref": "#/responses/error"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["matches"], "summary": "Replace a phase whose matches have not started",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/phase"}],
                "responses": {"201": {"description": "Created"}, "409": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/matches": {
            "get": {"tags": ["matches"], "summary": "List matches of a tournament",
                "parameters": [
                    {"$ref": "#/parameters/tournamentID"},
                    {"type": "string", "name": "phase", "in": "query"},
                    {"type": "string", "name": "group", "in": "query"},
                    {"type": "string", "name": "bloc", "in": "query"},
                    {"type": "integer", "name": "round", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"$ref": "#/responses/error"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/matches/{matchID}": {
            "get": {"tags": ["matches"], "summary": "Get one match", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/matchID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/matches/{matchID}/rounds": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["matches"], "summary": "Record the result of one round of a match",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/matchID"}, {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RecordRoundInput"}}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}, "409": {"$ref": "#/responses/error"}, "422": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/standings/groups": {
            "get": {"tags": ["standings"], "summary": "Standings of every group", "parameters": [{"$ref": "#/parameters/tournamentID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/standings/groups/{groupName}": {
            "get": {"tags": ["standings"], "summary": "Standings of one group",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"type": "string", "name": "groupName", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/standings/blocs/{bloc}": {
            "get": {"tags": ["standings"], "summary": "Standings of a play-in bloc",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"type": "string", "enum": ["A", "B"], "name": "bloc", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/standings/qualification": {
            "get": {"tags": ["standings"], "summary": "Teams advancing from the group stage, direct and repechage",
                "parameters": [{"$ref": "#/parameters/tournamentID"}],
                "responses": {"200": {"description": "OK"}, "400": {"$ref": "#/responses/error"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/leaderboards/{gameMode}": {
            "get": {"tags": ["leaderboards"], "summary": "Kill leaderboard of a tournament",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/gameMode"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/leaderboards/{gameMode}/entries": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["leaderboards"], "summary": "Add kills for a player outside of a recorded match",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/gameMode"}, {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ManualEntryInput"}}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}, "422": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/leaderboards/{gameMode}/recalculate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["leaderboards"], "summary": "Rebuild the kill leaderboard from every recorded submission",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"$ref": "#/parameters/gameMode"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/results": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["rankings"], "summary": "Record a battle royale game result for a team",
                "parameters": [{"$ref": "#/parameters/tournamentID"}, {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.GameResultInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"$ref": "#/responses/error"}, "404": {"$ref": "#/responses/error"}, "409": {"$ref": "#/responses/error"}, "422": {"$ref": "#/responses/error"}}}
        },
        "/tournaments/{tournamentID}/rankings": {
            "get": {"tags": ["rankings"], "summary": "Battle royale team ranking", "parameters": [{"$ref": "#/parameters/tournamentID"}],
                "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/ws/tournaments/{tournamentID}": {
            "get": {"tags": ["realtime"], "summary": "Subscribe to live updates of a tournament",
                "description": "Pushes MATCH_UPDATED, BRACKET_UPDATED, LEADERBOARD_UPDATED and TOURNAMENT_UPDATED events.",
                "parameters": [{"$ref": "#/parameters/tournamentID"}],
                "responses": {"101": {"description": "Switching Protocols"}, "404": {"$ref": "#/responses/error"}}}
        }
    },
    "parameters": {
        "tournamentID": {"type": "string", "name": "tournamentID", "in": "path", "required": true},
        "teamID": {"type": "string", "name": "teamID", "in": "path", "required": true},
        "playerID": {"type": "string", "name": "playerID", "in": "path", "required": true},
        "matchID": {"type": "string", "name": "matchID", "in": "path", "required": true},
        "gameMode": {"type": "string", "enum": ["battle_royale", "multiplayer"], "name": "gameMode", "in": "path", "required": true},
        "phase": {"type": "string", "enum": ["group_stage", "play_in", "elimination"], "name": "phase", "in": "path", "required": true}
    },
    "responses": {
        "error": {"description": "Error", "schema": {"type": "object", "properties": {"error": {"type": "string"}}}}
    },
    "definitions": {
        "services.CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "gameMode": {"type": "string", "enum": ["battle_royale", "multiplayer"]},
                "customFormat": {"type": "object"},
                "deadline_register": {"type": "string", "format": "date-time"},
                "date_result": {"type": "string", "format": "date-time"}
            }
        },
        "services.UpdateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "customFormat": {"type": "object"},
                "deadline_register": {"type": "string", "format": "date-time"},
                "date_result": {"type": "string", "format": "date-time"}
            }
        },
        "services.RegisterTeamInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/services.RegisterPlayerInput"}}
            }
        },
        "services.RegisterPlayerInput": {
            "type": "object",
            "properties": {
                "pseudo": {"type": "string"},
                "isCaptain": {"type": "boolean"},
                "whatsapp": {"type": "string"},
                "country": {"type": "string"},
                "deviceCheckVideoUrl": {"type": "string"}
            }
        },
        "services.RecordRoundInput": {
            "type": "object",
            "properties": {
                "expectedVersion": {"type": "integer"},
                "winnerId": {"type": "string"},
                "team1PlayerKills": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerKills"}},
                "team2PlayerKills": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerKills"}}
            }
        },
        "models.PlayerKills": {
            "type": "object",
            "properties": {
                "playerId": {"type": "string"},
                "playerName": {"type": "string"},
                "kills": {"type": "integer"}
            }
        },
        "services.GameResultInput": {
            "type": "object",
            "properties": {
                "teamId": {"type": "string"},
                "gameNumber": {"type": "integer"},
                "placement": {"type": "integer"},
                "kills": {"type": "integer"}
            }
        },
        "handlers.ManualEntryInput": {
            "type": "object",
            "properties": {
                "playerId": {"type": "string"},
                "deltaKills": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CoD Mobile Tournament API",
	Description:      "Brackets, match results, standings and kill leaderboards for CoD Mobile tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
