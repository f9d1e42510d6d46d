package chain

// contractABI covers the calls and events the importer needs.
const contractABI = `[
  {"type":"function","name":"getBorg","stateMutability":"view",
   "inputs":[{"name":"borgId","type":"uint256"}],
   "outputs":[
     {"name":"name","type":"string"},
     {"name":"image","type":"bytes8[]"},
     {"name":"attributes","type":"string[]"},
     {"name":"parentId1","type":"uint256"},
     {"name":"parentId2","type":"uint256"},
     {"name":"childId","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"GeneratedBorg","anonymous":false,
   "inputs":[
     {"name":"borgId","type":"uint256","indexed":true},
     {"name":"creator","type":"address","indexed":true},
     {"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"BredBorg","anonymous":false,
   "inputs":[
     {"name":"childId","type":"uint256","indexed":true},
     {"name":"parentId1","type":"uint256","indexed":true},
     {"name":"parentId2","type":"uint256","indexed":true},
     {"name":"breeder","type":"address","indexed":false},
     {"name":"timestamp","type":"uint256","indexed":false}]}
]`
