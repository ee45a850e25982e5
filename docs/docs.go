// Package docs contiene la especificación Swagger servida en /swagger/*.
// Se mantiene a mano a partir de las anotaciones de los handlers.
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
		"/admin/roles": {
			"post": {
				"description": "Solo admin. Si el usuario ya tiene el rol activo devuelve la asignación existente.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"roles"
				],
				"summary": "Otorgar rol de plataforma",
				"parameters": [
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Bearer token en producción",
						"name": "Authorization",
						"in": "header"
					},
					{
						"description": "Usuario y rol (admin | moderator)",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/roles.grantRoleRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/roles.assignmentResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/admin/roles/{assignmentID}/revoke": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"roles"
				],
				"summary": "Revocar rol",
				"parameters": [
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "ID de la asignación",
						"name": "assignmentID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/roles.assignmentResponse"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					},
					"404": {
						"description": "not found",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/admin/users/{userID}/roles": {
			"get": {
				"description": "Solo admin.",
				"produces": [
					"application/json"
				],
				"tags": [
					"roles"
				],
				"summary": "Roles de un usuario",
				"parameters": [
					{
						"type": "string",
						"description": "ID del usuario",
						"name": "userID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/roles.assignmentResponse"
							}
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/geocode/reverse": {
			"get": {
				"description": "Traduce lat/lon a una dirección. Si el proveedor falla devuelve \"lat, lon\" con fallback=true.",
				"produces": [
					"application/json"
				],
				"tags": [
					"geocode"
				],
				"summary": "Geocodificación inversa",
				"parameters": [
					{
						"type": "number",
						"description": "Latitud",
						"name": "lat",
						"in": "query",
						"required": true
					},
					{
						"type": "number",
						"description": "Longitud",
						"name": "lon",
						"in": "query",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/geocode.Result"
						}
					},
					"400": {
						"description": "invalid coordinates",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/map/live": {
			"get": {
				"description": "Sesión de mapa: el servidor manda snapshot y diffs de marcadores, overlay de rastro y notificaciones; el cliente manda comandos (filter, select, tracking, locate, sound, refresh).",
				"tags": [
					"map"
				],
				"summary": "Mapa en vivo (WebSocket)",
				"parameters": [
					{
						"type": "string",
						"description": "Token de acceso (los browsers no pueden mandar Authorization en el upgrade)",
						"name": "access_token",
						"in": "query"
					}
				],
				"responses": {
					"403": {
						"description": "origin not allowed",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/me/profile": {
			"get": {
				"description": "Sin perfil guardado devuelve los valores por defecto (owner, sonido activado).",
				"produces": [
					"application/json"
				],
				"tags": [
					"profiles"
				],
				"summary": "Mi perfil",
				"parameters": [
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Bearer token en producción",
						"name": "Authorization",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/profiles.profileResponse"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					}
				}
			},
			"put": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"profiles"
				],
				"summary": "Actualizar mi perfil",
				"parameters": [
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"description": "Campos a modificar",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/profiles.updateProfileRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/profiles.profileResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/me/roles": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"roles"
				],
				"summary": "Mis roles",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/roles.assignmentResponse"
							}
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/pets": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"pets"
				],
				"summary": "Mis mascotas",
				"parameters": [
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/pets.petResponse"
							}
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"pets"
				],
				"summary": "Registrar mascota",
				"parameters": [
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Bearer token en producción",
						"name": "Authorization",
						"in": "header"
					},
					{
						"description": "Datos de la mascota",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/pets.createPetRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/pets.petResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/pets/{petID}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"pets"
				],
				"summary": "Detalle de mascota",
				"parameters": [
					{
						"type": "string",
						"description": "ID de la mascota",
						"name": "petID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/pets.petResponse"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"type": "string"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					},
					"404": {
						"description": "not found",
						"schema": {
							"type": "string"
						}
					}
				}
			},
			"patch": {
				"description": "PATCH parcial, solo dueño. birth_date: null limpia la fecha.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"pets"
				],
				"summary": "Actualizar mascota",
				"parameters": [
					{
						"type": "string",
						"description": "ID de la mascota",
						"name": "petID",
						"in": "path",
						"required": true
					},
					{
						"description": "Campos a cambiar",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/pets.updatePetRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/pets.petResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					},
					"404": {
						"description": "not found",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/map": {
			"get": {
				"description": "Invitados leen de las vistas *_map. Ningún ítem trae teléfono. markers solo incluye reportes con coordenadas.",
				"produces": [
					"application/json"
				],
				"tags": [
					"map"
				],
				"summary": "Reportes para el mapa",
				"parameters": [
					{
						"type": "string",
						"description": "all | missing | stray",
						"name": "category",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Prefijo de la zona (texto antes de la primera coma o guion). all = sin filtro",
						"name": "region",
						"in": "query"
					},
					{
						"type": "boolean",
						"description": "Incluir encontrados/cerrados/rescatados",
						"name": "include_resolved",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/mapview.mapResponse"
						}
					},
					"400": {
						"description": "invalid category",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/missing": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Crear reporte de mascota perdida",
				"parameters": [
					{
						"type": "string",
						"description": "Solo en modo dev, ID de usuario para depuración",
						"name": "X-Debug-User-ID",
						"in": "header"
					},
					{
						"type": "string",
						"description": "Bearer token en producción",
						"name": "Authorization",
						"in": "header"
					},
					{
						"description": "Datos del reporte",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/reports.createMissingRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.MissingResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "sign_in_required",
						"schema": {
							"$ref": "#/definitions/reports.errorResponse"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/missing/{reportID}": {
			"get": {
				"description": "Invitados leen desde missing_reports_map. El teléfono solo viaja en contact cuando mode=call.",
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Detalle de reporte de pérdida",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte",
						"name": "reportID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.missingDetailResponse"
						}
					},
					"404": {
						"description": "report not found",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/missing/{reportID}/close": {
			"post": {
				"description": "Un reporte cerrado ya no se puede modificar.",
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Cerrar reporte de pérdida",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte",
						"name": "reportID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.MissingResponse"
						}
					},
					"401": {
						"description": "sign_in_required",
						"schema": {
							"$ref": "#/definitions/reports.errorResponse"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					},
					"404": {
						"description": "report not found",
						"schema": {
							"type": "string"
						}
					},
					"409": {
						"description": "invalid state / operation already in progress",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/missing/{reportID}/found": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Marcar mascota como encontrada",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte",
						"name": "reportID",
						"in": "path",
						"required": true
					},
					{
						"description": "Tipo de resolución y notas",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/reports.markFoundRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.MissingResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "sign_in_required",
						"schema": {
							"$ref": "#/definitions/reports.errorResponse"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					},
					"409": {
						"description": "invalid state / operation already in progress",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/missing/{reportID}/sightings": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Avistamientos de un reporte",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte",
						"name": "reportID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/reports.SightingResponse"
							}
						}
					},
					"404": {
						"description": "report not found",
						"schema": {
							"type": "string"
						}
					}
				}
			},
			"post": {
				"description": "Coordenadas: lat/lon explícitas, luego device_lat/device_lon, luego las del reporte. Si no hay ninguna responde 422.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Reportar avistamiento",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte",
						"name": "reportID",
						"in": "path",
						"required": true
					},
					{
						"description": "Avistamiento",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/reports.submitSightingRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.sightingCreatedResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "sign_in_required",
						"schema": {
							"$ref": "#/definitions/reports.errorResponse"
						}
					},
					"404": {
						"description": "report not found",
						"schema": {
							"type": "string"
						}
					},
					"422": {
						"description": "no coordinates available",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/missing/{reportID}/track": {
			"get": {
				"description": "Punto original (si existe) seguido de los avistamientos en orden de creación.",
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Rastro de una mascota perdida",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte",
						"name": "reportID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.trackResponse"
						}
					},
					"404": {
						"description": "report not found",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/stats": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Contadores del mapa",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.Stats"
						}
					}
				}
			}
		},
		"/reports/stray": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Reportar animal en la calle",
				"parameters": [
					{
						"description": "Datos del reporte",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/reports.createStrayRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.StrayResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"401": {
						"description": "sign_in_required",
						"schema": {
							"$ref": "#/definitions/reports.errorResponse"
						}
					}
				}
			}
		},
		"/reports/stray/{reportID}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Detalle de reporte de callejero",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte de callejero",
						"name": "reportID",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.strayDetailResponse"
						}
					},
					"404": {
						"description": "report not found",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/stray/{reportID}/rescue": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Registrar rescate en clínica",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte de callejero",
						"name": "reportID",
						"in": "path",
						"required": true
					},
					{
						"description": "Datos del rescate",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/reports.rescueRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.StrayResponse"
						}
					},
					"409": {
						"description": "invalid state",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/reports/stray/{reportID}/status": {
			"patch": {
				"description": "Solo roles privilegiados. new -> in_progress -> closed.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"reports"
				],
				"summary": "Cambiar estado de un callejero",
				"parameters": [
					{
						"type": "string",
						"description": "ID del reporte de callejero",
						"name": "reportID",
						"in": "path",
						"required": true
					},
					{
						"description": "Nuevo estado",
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/reports.strayStatusRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/reports.StrayResponse"
						}
					},
					"400": {
						"description": "invalid input",
						"schema": {
							"type": "string"
						}
					},
					"403": {
						"description": "forbidden",
						"schema": {
							"type": "string"
						}
					},
					"409": {
						"description": "invalid state / operation already in progress",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"geocode.Result": {
			"type": "object",
			"properties": {
				"address": {
					"type": "string"
				},
				"fallback": {
					"type": "boolean"
				}
			}
		},
		"mapview.Filter": {
			"type": "object",
			"properties": {
				"category": {
					"type": "string"
				},
				"region": {
					"type": "string"
				}
			}
		},
		"mapview.Marker": {
			"type": "object",
			"properties": {
				"danger_level": {
					"type": "string"
				},
				"key": {
					"type": "string"
				},
				"kind": {
					"type": "string"
				},
				"lat": {
					"type": "number"
				},
				"lon": {
					"type": "number"
				},
				"report_id": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"title": {
					"type": "string"
				}
			}
		},
		"mapview.mapResponse": {
			"type": "object",
			"properties": {
				"filter": {
					"$ref": "#/definitions/mapview.Filter"
				},
				"markers": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/mapview.Marker"
					}
				},
				"missing": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/reports.MissingResponse"
					}
				},
				"stray": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/reports.StrayResponse"
					}
				}
			}
		},
		"pets.createPetRequest": {
			"type": "object",
			"properties": {
				"birth_date": {
					"type": "string"
				},
				"breed": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				},
				"photo_url": {
					"type": "string"
				},
				"sex": {
					"type": "string"
				},
				"species": {
					"type": "string"
				}
			}
		},
		"pets.petResponse": {
			"type": "object",
			"properties": {
				"birth_date": {
					"type": "string"
				},
				"breed": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				},
				"owner_user_id": {
					"type": "string"
				},
				"photo_url": {
					"type": "string"
				},
				"sex": {
					"type": "string"
				},
				"species": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"pets.updatePetRequest": {
			"type": "object",
			"properties": {
				"birth_date": {
					"type": "string"
				},
				"breed": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				},
				"photo_url": {
					"type": "string"
				},
				"sex": {
					"type": "string"
				},
				"species": {
					"type": "string"
				}
			}
		},
		"profiles.profileResponse": {
			"type": "object",
			"properties": {
				"declared_role": {
					"type": "string"
				},
				"display_name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"sound_enabled": {
					"type": "boolean"
				},
				"updated_at": {
					"type": "string"
				},
				"user_id": {
					"type": "string"
				}
			}
		},
		"profiles.updateProfileRequest": {
			"type": "object",
			"properties": {
				"declared_role": {
					"type": "string"
				},
				"display_name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"sound_enabled": {
					"type": "boolean"
				}
			}
		},
		"reports.Coord": {
			"type": "object",
			"properties": {
				"lat": {
					"type": "number"
				},
				"lon": {
					"type": "number"
				}
			}
		},
		"reports.MissingResponse": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"last_seen_at": {
					"type": "string"
				},
				"last_seen_location": {
					"type": "string"
				},
				"lat": {
					"type": "number"
				},
				"lon": {
					"type": "number"
				},
				"owner_user_id": {
					"type": "string"
				},
				"pet": {
					"$ref": "#/definitions/reports.PetRef"
				},
				"pet_id": {
					"type": "string"
				},
				"resolution": {
					"$ref": "#/definitions/reports.resolutionResponse"
				},
				"status": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"reports.PetRef": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"breed": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"photo_url": {
					"type": "string"
				},
				"species": {
					"type": "string"
				}
			}
		},
		"reports.SightingResponse": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"lat": {
					"type": "number"
				},
				"location_text": {
					"type": "string"
				},
				"lon": {
					"type": "number"
				},
				"photo_url": {
					"type": "string"
				},
				"report_id": {
					"type": "string"
				},
				"reporter_id": {
					"type": "string"
				}
			}
		},
		"reports.Stats": {
			"type": "object",
			"properties": {
				"active_missing": {
					"type": "integer"
				},
				"closed_missing": {
					"type": "integer"
				},
				"found_missing": {
					"type": "integer"
				},
				"open_stray": {
					"type": "integer"
				},
				"resolved_stray": {
					"type": "integer"
				}
			}
		},
		"reports.StrayResponse": {
			"type": "object",
			"properties": {
				"animal_type": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"danger_level": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"lat": {
					"type": "number"
				},
				"location": {
					"type": "string"
				},
				"lon": {
					"type": "number"
				},
				"photo_url": {
					"type": "string"
				},
				"reporter_user_id": {
					"type": "string"
				},
				"rescue": {
					"$ref": "#/definitions/reports.rescueResponse"
				},
				"resolved": {
					"type": "boolean"
				},
				"status": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"reports.createMissingRequest": {
			"type": "object",
			"properties": {
				"contact_phone": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"last_seen_at": {
					"type": "string"
				},
				"last_seen_location": {
					"type": "string"
				},
				"lat": {
					"type": "number"
				},
				"lon": {
					"type": "number"
				},
				"pet_id": {
					"type": "string"
				}
			}
		},
		"reports.createStrayRequest": {
			"type": "object",
			"properties": {
				"animal_type": {
					"type": "string"
				},
				"contact_phone": {
					"type": "string"
				},
				"danger_level": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"lat": {
					"type": "number"
				},
				"location": {
					"type": "string"
				},
				"lon": {
					"type": "number"
				},
				"photo_url": {
					"type": "string"
				}
			}
		},
		"reports.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"reports.markFoundRequest": {
			"type": "object",
			"properties": {
				"notes": {
					"type": "string"
				},
				"resolution_type": {
					"type": "string"
				}
			}
		},
		"reports.missingDetailResponse": {
			"type": "object",
			"properties": {
				"can_resolve": {
					"type": "boolean"
				},
				"contact": {
					"$ref": "#/definitions/visibility.ContactDisclosure"
				},
				"report": {
					"$ref": "#/definitions/reports.MissingResponse"
				}
			}
		},
		"reports.rescueRequest": {
			"type": "object",
			"properties": {
				"clinic_name": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				},
				"rescue_date": {
					"type": "string"
				}
			}
		},
		"reports.rescueResponse": {
			"type": "object",
			"properties": {
				"clinic_name": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				},
				"rescue_date": {
					"type": "string"
				},
				"taken_to_clinic": {
					"type": "boolean"
				}
			}
		},
		"reports.resolutionResponse": {
			"type": "object",
			"properties": {
				"notes": {
					"type": "string"
				},
				"resolved_at": {
					"type": "string"
				},
				"resolved_by": {
					"type": "string"
				},
				"type": {
					"type": "string"
				}
			}
		},
		"reports.sightingCreatedResponse": {
			"type": "object",
			"properties": {
				"sighting": {
					"$ref": "#/definitions/reports.SightingResponse"
				},
				"sound": {
					"type": "boolean"
				}
			}
		},
		"reports.strayDetailResponse": {
			"type": "object",
			"properties": {
				"can_manage": {
					"type": "boolean"
				},
				"contact": {
					"$ref": "#/definitions/visibility.ContactDisclosure"
				},
				"report": {
					"$ref": "#/definitions/reports.StrayResponse"
				}
			}
		},
		"reports.strayStatusRequest": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				}
			}
		},
		"reports.submitSightingRequest": {
			"type": "object",
			"properties": {
				"description": {
					"type": "string"
				},
				"device_lat": {
					"type": "number"
				},
				"device_lon": {
					"type": "number"
				},
				"lat": {
					"type": "number"
				},
				"location_text": {
					"type": "string"
				},
				"lon": {
					"type": "number"
				},
				"photo_url": {
					"type": "string"
				}
			}
		},
		"reports.trackResponse": {
			"type": "object",
			"properties": {
				"origin": {
					"$ref": "#/definitions/reports.Coord"
				},
				"path": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/reports.Coord"
					}
				},
				"report_id": {
					"type": "string"
				},
				"sightings": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/reports.SightingResponse"
					}
				}
			}
		},
		"roles.assignmentResponse": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"granted_by": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"revoked_at": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				},
				"user_id": {
					"type": "string"
				}
			}
		},
		"roles.grantRoleRequest": {
			"type": "object",
			"properties": {
				"role": {
					"type": "string"
				},
				"user_id": {
					"type": "string"
				}
			}
		},
		"visibility.ContactDisclosure": {
			"type": "object",
			"properties": {
				"mode": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Reports Map API",
	Description:      "Mapa en vivo de mascotas perdidas y animales en la calle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
