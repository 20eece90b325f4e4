package analyzer

// systemPrompt instructs the model to translate a word problem into the
// specification format read by problem.Parse.
const systemPrompt = `Analyze the following problem and produce strict JSON with exactly two sections: "entities" and "operations".

1. entities: array of objects, one per entity mentioned in the problem.
   - name: (string) the entity name, for example a Star Wars character or planet, or a Pokémon.
   - universe: (string) "pokemon" or "starwars".
   - type: (string) "people" for characters, "planet" for planets, or "pokemon".
   - numeric_properties: (string[]) the numeric properties the problem uses.
     * Pokémon: "base_experience", "height", "weight".
     * Planets: "rotation_period", "orbital_period", "diameter", "gravity", "surface_water", "population".
     * People: "height", "mass".

2. operations: array of objects, one per arithmetic step, in the order they must be computed.
   - description: (string) a short description of the step.
   - operator: (string) one of "+", "-", "*", "/".
   - elements: object with two keys, "left" and "right". Each one is either
     * an object {"entity": <entity name>, "property": <numeric property>},
     * an object {"ref": "opN"} naming the result of the N-th operation (1-based, earlier steps only),
     * or a plain number.
   - final: (optional boolean) true on the operation whose result answers the problem. When no
     operation is final the last one is used.

Exact format:
{
  "entities": [
    {"name": "Pikachu", "universe": "pokemon", "type": "pokemon", "numeric_properties": ["weight"]}
  ],
  "operations": [
    {
      "description": "Double Pikachu's weight",
      "operator": "*",
      "elements": {"left": {"entity": "Pikachu", "property": "weight"}, "right": 2},
      "final": true
    }
  ]
}

Reply with the JSON document only, without explanations.`
